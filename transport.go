package gochunk

import (
	"context"
	"reflect"
	"strings"

	"github.com/chararch/gochunk/file"
	"github.com/pkg/errors"
)

//TransportMode how chunks and results cross the worker boundary
type TransportMode string

const (
	//Auto shared file when the memory directory is usable, inline otherwise
	Auto TransportMode = "auto"
	//Inline chunk bytes travel inside the task
	Inline TransportMode = "inline"
	//SharedFile chunk bytes are written to a memory backed directory, only paths travel
	SharedFile TransportMode = "shared-file"
)

//ParseTransportMode parse a mode name, the empty string means Auto
func ParseTransportMode(name string) (TransportMode, error) {
	switch TransportMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", Auto:
		return Auto, nil
	case Inline, "pipe":
		return Inline, nil
	case SharedFile, "shared_file", "sharedfile", "memory-fs":
		return SharedFile, nil
	}
	return "", errors.Errorf("unknown transport mode: %v", name)
}

//Releaser a transport resource with an idempotent release
type Releaser interface {
	Release() error
}

//InputHandle input half of a chunk, read once by the worker
type InputHandle interface {
	Releaser
	Read() (interface{}, error)
}

//OutputHandle output half of a chunk, written by the worker and read by the orchestrator
type OutputHandle interface {
	Releaser
	Write(v interface{}) error
	Read() (interface{}, error)
}

//Staging transport resources of one run, one entry per chunk
type Staging struct {
	Inputs  []InputHandle
	Outputs []OutputHandle
	Sizes   []int
}

//Releasers every handle of the staging
func (s *Staging) Releasers() []Releaser {
	if s == nil {
		return nil
	}
	all := make([]Releaser, 0, len(s.Inputs)+len(s.Outputs))
	for _, h := range s.Inputs {
		all = append(all, h)
	}
	for _, h := range s.Outputs {
		all = append(all, h)
	}
	return all
}

// Transport stages chunk payloads before dispatch and fetches results afterwards.
type Transport interface {
	Mode() TransportMode
	// SignalsInputConsumed whether workers report InputConsumed, so that inputs
	// can be released before the run ends.
	SignalsInputConsumed() bool
	Stage(ctx context.Context, chunks []interface{}) (*Staging, error)
	Fetch(outputs []OutputHandle) ([]interface{}, error)
	Release(handles ...Releaser)
}

//ResolveTransport applies the selection policy for mode
func ResolveTransport(mode TransportMode, memoryDir string) (Transport, error) {
	if memoryDir == "" {
		memoryDir = file.MemoryFSRoot
	}
	fs := fileStorage()
	switch mode {
	case Inline:
		return newInlineTransport(), nil
	case SharedFile:
		if err := file.CheckDir(fs, memoryDir); err != nil {
			return nil, NewBatchError(ErrCodeConfiguration, "shared file transport requested but memory directory:%v is unavailable", memoryDir, err)
		}
		return newFileTransport(fs, memoryDir), nil
	case Auto, "":
		if err := file.CheckDir(fs, memoryDir); err != nil {
			logger.Debug(context.Background(), "memory directory unavailable, fall back to inline transport, dir:%v, err:%v", memoryDir, err)
			return newInlineTransport(), nil
		}
		return newFileTransport(fs, memoryDir), nil
	}
	return nil, NewBatchError(ErrCodeConfiguration, "unknown transport mode:%v", mode)
}

func fileStorage() file.FileStorage {
	return &file.LocalFileSystem{}
}

// releaseAll releases every handle, errors are logged and swallowed.
func releaseAll(handles []Releaser) {
	for _, h := range handles {
		if h == nil {
			continue
		}
		if err := h.Release(); err != nil {
			logger.Warn(context.Background(), "release transport handle failed, err:%v", err)
		}
	}
}

func sizeOf(payload interface{}) int {
	if s, ok := payload.(Sizer); ok {
		return s.Size()
	}
	if payload == nil {
		return 0
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return v.Len()
	}
	return 1
}
