package gochunk

import (
	"context"
	"io"
	"sync"

	"github.com/chararch/gochunk/status"
	"github.com/chararch/gochunk/util"
)

// Call is one parallel invocation: Adapter splits Data, Func transforms every
// item of every chunk, Args and Params are forwarded to each worker.
type Call struct {
	Adapter Adapter
	Data    interface{}
	Func    Func
	Args    []interface{}
	Params  *Params
}

// ParallelFunc is an adapter bound to an engine.
type ParallelFunc func(ctx context.Context, data interface{}, fn Func, args ...interface{}) (interface{}, error)

// Engine runs Calls on a fixed pool of workers. Runs on one engine are
// serialized.
type Engine struct {
	mu            sync.Mutex
	pool          *taskPool
	transport     Transport
	workers       int
	progress      bool
	progressOut   io.Writer
	instrument    Instrument
	listeners     []interface{}
	cancelOnError bool
	verbose       bool
	closed        bool
}

//Workers number of pool slots
func (e *Engine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workers
}

//TransportMode transport resolved when the engine was built
func (e *Engine) TransportMode() TransportMode {
	return e.transport.Mode()
}

//Resize changes the number of pool slots, later runs are planned for workers chunks
func (e *Engine) Resize(workers int) error {
	if workers < 1 {
		return NewBatchError(ErrCodeConfiguration, "workers must be positive, got:%v", workers)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return PoolClosedError
	}
	logger.Debug(context.Background(), "resize worker pool, from:%v, to:%v, running:%v", e.workers, workers, e.pool.Running())
	e.pool.SetMaxSize(workers)
	e.workers = workers
	return nil
}

//Close releases the worker pool, later runs fail
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.pool.Release()
	}
}

//Parallelize binds adapter to the engine
func (e *Engine) Parallelize(adapter Adapter) ParallelFunc {
	return func(ctx context.Context, data interface{}, fn Func, args ...interface{}) (interface{}, error) {
		return e.Run(ctx, &Call{Adapter: adapter, Data: data, Func: fn, Args: args})
	}
}

//RunNamed runs the adapter registered under name
func (e *Engine) RunNamed(ctx context.Context, name string, data interface{}, fn Func, args ...interface{}) (interface{}, error) {
	adapter, ok := LookupAdapter(name)
	if !ok {
		return nil, NewBatchError(ErrCodeGeneral, "no adapter registered with name:%v", name)
	}
	return e.Run(ctx, &Call{Adapter: adapter, Data: data, Func: fn, Args: args})
}

// Run plans, stages, dispatches, drains, fetches and reduces one call.
// Transport resources are released on every return path. When any chunk
// fails, the first failure observed is returned and Reduce is not called.
func (e *Engine) Run(ctx context.Context, call *Call) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, PoolClosedError
	}
	if call == nil || call.Adapter == nil {
		return nil, NoAdapterError
	}
	adapter := call.Adapter
	if e.verbose {
		logger.Info(ctx, "parallel run, adapter:%T, workers:%v, params:%v", adapter, e.workers, util.LogString(call.Params))
	}
	payloads, err := adapter.Chunks(e.workers, call.Data, call.Args...)
	if err != nil {
		logger.Error(ctx, "split data into chunks failed, workers:%v, err:%v", e.workers, err)
		if _, ok := err.(BatchError); ok {
			return nil, err
		}
		return nil, NewBatchError(ErrCodePlanning, "split data into chunks failed", err)
	}
	var workerMeta, reduceMeta interface{}
	if p, ok := adapter.(WorkerMetaProvider); ok {
		workerMeta = p.WorkerMeta(call.Data)
	}
	if p, ok := adapter.(ReduceMetaProvider); ok {
		reduceMeta = p.ReduceMeta(call.Data)
	}
	if len(payloads) == 0 {
		logger.Debug(ctx, "no chunk to process, reduce empty result")
		return reduceResults(adapter, []interface{}{}, reduceMeta)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	staging, err := e.transport.Stage(runCtx, payloads)
	if err != nil {
		logger.Error(ctx, "stage chunks failed, transport:%v, chunks:%v, err:%v", e.transport.Mode(), len(payloads), err)
		return nil, err
	}
	defer e.transport.Release(staging.Releasers()...)

	ls := e.runListeners()
	ls.beforeRun(staging.Sizes)
	tasks := make([]*Task, len(payloads))
	for i := range payloads {
		tasks[i] = &Task{
			Index:  i,
			Input:  staging.Inputs[i],
			Output: staging.Outputs[i],
			Meta:   workerMeta,
			Args:   call.Args,
			Params: call.Params.DeepCopy(),
		}
	}
	events := newStatusChannel(e.workers)
	w := &worker{
		ctx:         runCtx,
		adapter:     adapter,
		fn:          call.Func,
		instrument:  e.instrument,
		signalInput: e.transport.SignalsInputConsumed(),
		events:      events,
	}
	logger.Debug(ctx, "dispatch chunks, chunks:%v, transport:%v", len(tasks), e.transport.Mode())
	batch := e.pool.Dispatch(runCtx, tasks, w.run)

	st := e.drain(events, batch, staging, ls, cancel)
	joinErr := batch.Join()
	ls.afterRun(st.overall())
	if err := st.err(); err != nil {
		logger.Error(ctx, "parallel run failed, chunks:%v, failed:%v, err:%v", len(tasks), countFailed(st.finished), err)
		return nil, err
	}
	if joinErr != nil {
		return nil, joinErr
	}
	results, err := e.transport.Fetch(staging.Outputs)
	if err != nil {
		return nil, err
	}
	return reduceResults(adapter, results, reduceMeta)
}

func (e *Engine) runListeners() *listeners {
	ls := &listeners{}
	if e.progress {
		ls.add(newProgressBars(e.progressOut))
	}
	for _, l := range e.listeners {
		ls.add(l)
	}
	return ls
}

// drain consumes status events until every chunk is terminal. Chunks that
// are still pending once the whole batch has returned never reported, they
// are failed with the batch error or a pool error.
func (e *Engine) drain(events *statusChannel, batch *Batch, staging *Staging, ls *listeners, cancel context.CancelFunc) *runState {
	st := newRunState(len(staging.Inputs))
	generation := 0
	handle := func(ev StatusEvent) {
		if ev.Index < 0 || ev.Index >= len(st.finished) {
			logger.Warn(context.Background(), "status event for unknown chunk, event:%v, chunk:%v", ev.Kind, ev.Index)
			return
		}
		switch ev.Kind {
		case InputConsumed:
			e.transport.Release(staging.Inputs[ev.Index])
			ls.inputConsumed(ev.Index)
		case Progress:
			if st.finished[ev.Index].Terminal() {
				return
			}
			st.progress[ev.Index] = ev.Processed
			if generation%e.workers == 0 {
				ls.progress(st.progress)
			}
			generation++
		case Success:
			if st.succeed(ev.Index) {
				st.progress[ev.Index] = staging.Sizes[ev.Index]
				ls.success(ev.Index)
				ls.progress(st.progress)
			}
		case Error:
			err := ev.Err
			if err == nil {
				err = NewBatchError(ErrCodeWorker, "chunk:%v failed", ev.Index)
			}
			if st.fail(ev.Index, err) {
				ls.failure(ev.Index, err)
				ls.progress(st.progress)
				if e.cancelOnError {
					cancel()
				}
			}
		}
	}
	for st.pending > 0 {
		select {
		case ev := <-events.events():
			handle(ev)
		case <-batch.Done():
			// every worker has returned, so whatever they sent is buffered
			for drained := false; !drained; {
				select {
				case ev := <-events.events():
					handle(ev)
				default:
					drained = true
				}
			}
			for i, s := range st.finished {
				if s != status.PENDING {
					continue
				}
				err := batch.Err(i)
				if err == nil {
					err = NewBatchError(ErrCodePool, "worker of chunk:%v exited without a terminal status", i)
				}
				st.fail(i, err)
				ls.failure(i, err)
			}
		}
	}
	return st
}

func countFailed(all []status.ChunkStatus) int {
	n := 0
	for _, s := range all {
		if s == status.FAILED {
			n++
		}
	}
	return n
}
