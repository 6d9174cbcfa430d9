package gochunk

import (
	"context"
	"sync"

	"github.com/chararch/gochunk/file"
)

type inlineTransport struct{}

func newInlineTransport() *inlineTransport {
	return &inlineTransport{}
}

func (t *inlineTransport) Mode() TransportMode {
	return Inline
}

func (t *inlineTransport) SignalsInputConsumed() bool {
	return false
}

func (t *inlineTransport) Stage(ctx context.Context, chunks []interface{}) (*Staging, error) {
	staging := &Staging{
		Inputs:  make([]InputHandle, len(chunks)),
		Outputs: make([]OutputHandle, len(chunks)),
		Sizes:   make([]int, len(chunks)),
	}
	for i, chunk := range chunks {
		b, err := file.Marshal(chunk)
		if err != nil {
			return nil, NewBatchError(ErrCodeTransport, "stage chunk:%v inline failed", i, err)
		}
		staging.Inputs[i] = &bufferHandle{buf: b}
		staging.Outputs[i] = &bufferHandle{}
		staging.Sizes[i] = sizeOf(chunk)
	}
	return staging, nil
}

func (t *inlineTransport) Fetch(outputs []OutputHandle) ([]interface{}, error) {
	return fetchAll(outputs)
}

func (t *inlineTransport) Release(handles ...Releaser) {
	releaseAll(handles)
}

// bufferHandle holds encoded bytes in memory. It serves as both the input
// and the output half of a chunk.
type bufferHandle struct {
	mu      sync.Mutex
	buf     []byte
	written bool
}

func (h *bufferHandle) Read() (interface{}, error) {
	h.mu.Lock()
	b := h.buf
	h.mu.Unlock()
	if b == nil {
		return nil, NewBatchError(ErrCodeTransport, "inline buffer is empty or released")
	}
	return file.Unmarshal(b)
}

func (h *bufferHandle) Write(v interface{}) error {
	b, err := file.Marshal(v)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.written {
		return NewBatchError(ErrCodeTransport, "inline buffer written twice")
	}
	h.buf, h.written = b, true
	return nil
}

func (h *bufferHandle) Release() error {
	h.mu.Lock()
	h.buf = nil
	h.mu.Unlock()
	return nil
}

func fetchAll(outputs []OutputHandle) ([]interface{}, error) {
	results := make([]interface{}, len(outputs))
	for i, out := range outputs {
		v, err := out.Read()
		if err != nil {
			return nil, NewBatchError(ErrCodeTransport, "fetch result of chunk:%v failed", i, err)
		}
		results[i] = v
	}
	return results, nil
}
