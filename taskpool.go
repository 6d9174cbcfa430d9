package gochunk

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// taskPool is the fixed set of workers of an Engine. It lives as long as the
// engine and serves one run at a time.
type taskPool struct {
	pool *ants.Pool
	size int
}

func newTaskPool(size int) (*taskPool, error) {
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(p interface{}) {
		logger.Error(context.Background(), "panic escaped a worker, err:%v, stack:%v", p, string(debug.Stack()))
	}))
	if err != nil {
		return nil, NewBatchError(ErrCodeConfiguration, "create worker pool of size:%v failed", size, err)
	}
	return &taskPool{
		pool: pool,
		size: size,
	}, nil
}

// Batch is the future of one dispatched set of tasks.
type Batch struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
	done chan struct{}
}

func newBatch(n int) *Batch {
	return &Batch{
		errs: make([]error, n),
		done: make(chan struct{}),
	}
}

func (b *Batch) set(index int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errs[index] == nil {
		b.errs[index] = err
	}
}

//Done closed once every task of the batch has returned or failed to submit
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

//Err error of task index, nil while it is running or when it succeeded
func (b *Batch) Err(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errs[index]
}

//Join waits for every task and returns the error of the lowest failed index
func (b *Batch) Join() error {
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, err := range b.errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Dispatch submits one task per chunk and returns at once; submission blocks
// while every worker is busy, so it runs in its own goroutine. A task whose
// submission fails never runs: its error is recorded in the batch and no
// status event is emitted for it.
func (pool *taskPool) Dispatch(ctx context.Context, tasks []*Task, run func(*Task) error) *Batch {
	batch := newBatch(len(tasks))
	batch.wg.Add(len(tasks))
	go func() {
		for _, task := range tasks {
			t := task
			err := pool.pool.Submit(func() {
				defer batch.wg.Done()
				defer func() {
					if p := recover(); p != nil {
						logger.Error(ctx, "worker crashed, chunk:%v, err:%v, stack:%v", t.Index, p, string(debug.Stack()))
						batch.set(t.Index, NewBatchError(ErrCodePool, "worker of chunk:%v crashed", t.Index, fmt.Errorf("panic:%v", p)))
					}
				}()
				if err := run(t); err != nil {
					batch.set(t.Index, err)
				}
			})
			if err != nil {
				batch.wg.Done()
				logger.Error(ctx, "submit task failed, chunk:%v, err:%v", t.Index, err)
				if err == ants.ErrPoolClosed {
					batch.set(t.Index, PoolClosedError)
				} else {
					batch.set(t.Index, NewBatchError(ErrCodePool, "submit chunk:%v failed", t.Index, err))
				}
			}
		}
		batch.wg.Wait()
		close(batch.done)
	}()
	return batch
}

func (pool *taskPool) Running() int {
	return pool.pool.Running()
}

func (pool *taskPool) Release() {
	pool.pool.Release()
}

func (pool *taskPool) SetMaxSize(size int) {
	pool.pool.Tune(size)
	pool.size = size
}
