package gochunk

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Task is the unit of work of one chunk. It is owned by the pool until its
// worker returns.
type Task struct {
	Index  int
	Input  InputHandle
	Output OutputHandle
	Meta   interface{}
	Args   []interface{}
	Params *Params
}

// worker holds everything the workers of one run share. It is built once
// per run and never modified afterwards.
type worker struct {
	ctx         context.Context
	adapter     Adapter
	fn          Func
	instrument  Instrument
	signalInput bool
	events      *statusChannel
}

// run executes one task and emits exactly one terminal event for it.
func (w *worker) run(t *Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error(w.ctx, "panic in worker, chunk:%v, err:%v, stack:%v", t.Index, p, string(debug.Stack()))
			err = NewBatchError(ErrCodeWorker, "panic while transforming chunk:%v", t.Index, fmt.Errorf("panic:%v", p))
		}
		if err != nil {
			w.events.send(StatusEvent{Kind: Error, Index: t.Index, Err: err})
		}
	}()
	data, err := t.Input.Read()
	if err != nil {
		return NewBatchError(ErrCodeTransport, "read input of chunk:%v failed", t.Index, err)
	}
	if w.signalInput {
		w.events.send(StatusEvent{Kind: InputConsumed, Index: t.Index})
	}
	fn := w.fn
	if w.instrument != nil && fn != nil {
		index := t.Index
		fn = w.instrument(fn, func(processed int) {
			w.events.tick(index, processed)
		})
	}
	cctx := &ChunkContext{
		Index:  t.Index,
		Meta:   t.Meta,
		Args:   t.Args,
		Params: t.Params,
		ctx:    w.ctx,
	}
	result, err := w.adapter.Work(cctx, data, fn, t.Args...)
	if err != nil {
		logger.Debug(w.ctx, "transform failed, chunk:%v, err:%v", t.Index, err)
		return NewBatchError(ErrCodeWorker, "transform of chunk:%v failed", t.Index, err)
	}
	if err = t.Output.Write(result); err != nil {
		return NewBatchError(ErrCodeTransport, "write result of chunk:%v failed", t.Index, err)
	}
	w.events.send(StatusEvent{Kind: Success, Index: t.Index})
	return nil
}
