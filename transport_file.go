package gochunk

import (
	"context"
	"sync"

	"github.com/chararch/gochunk/file"
	"golang.org/x/sync/errgroup"
)

type fileTransport struct {
	fs  file.FileStorage
	dir string
}

func newFileTransport(fs file.FileStorage, dir string) *fileTransport {
	return &fileTransport{fs: fs, dir: dir}
}

func (t *fileTransport) Mode() TransportMode {
	return SharedFile
}

func (t *fileTransport) SignalsInputConsumed() bool {
	return true
}

// Stage writes every chunk to its own input file concurrently. On failure all
// files created so far are removed.
func (t *fileTransport) Stage(ctx context.Context, chunks []interface{}) (*Staging, error) {
	staging := &Staging{
		Inputs:  make([]InputHandle, len(chunks)),
		Outputs: make([]OutputHandle, len(chunks)),
		Sizes:   make([]int, len(chunks)),
	}
	for i, chunk := range chunks {
		staging.Inputs[i] = &fileHandle{fs: t.fs, path: file.TempName(t.dir, file.PrefixInput)}
		staging.Outputs[i] = &fileHandle{fs: t.fs, path: file.TempName(t.dir, file.PrefixOutput)}
		staging.Sizes[i] = sizeOf(chunk)
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range chunks {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h := staging.Inputs[i].(*fileHandle)
			if err := file.WriteValue(t.fs, h.path, chunks[i]); err != nil {
				return NewBatchError(ErrCodeTransport, "stage chunk:%v to file:%v failed", i, h.path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Release(staging.Releasers()...)
		if _, ok := err.(BatchError); ok {
			return nil, err
		}
		return nil, NewBatchError(ErrCodeTransport, "stage chunks to dir:%v failed", t.dir, err)
	}
	return staging, nil
}

func (t *fileTransport) Fetch(outputs []OutputHandle) ([]interface{}, error) {
	return fetchAll(outputs)
}

func (t *fileTransport) Release(handles ...Releaser) {
	releaseAll(handles)
}

// fileHandle is one file in the memory directory. Either side may remove it,
// removing it again is harmless.
type fileHandle struct {
	fs       file.FileStorage
	path     string
	mu       sync.Mutex
	released bool
}

func (h *fileHandle) Path() string {
	return h.path
}

func (h *fileHandle) Read() (interface{}, error) {
	return file.ReadValue(h.fs, h.path)
}

func (h *fileHandle) Write(v interface{}) error {
	return file.WriteValue(h.fs, h.path, v)
}

func (h *fileHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	if err := h.fs.Remove(h.path); err != nil {
		return err
	}
	h.released = true
	return nil
}
