package gochunk

import (
	"fmt"
	"reflect"

	"github.com/chararch/gochunk/status"
)

// runState tracks every chunk of one run until all of them are terminal.
type runState struct {
	finished []status.ChunkStatus
	errs     []error
	progress []int
	pending  int
	first    int
}

func newRunState(n int) *runState {
	st := &runState{
		finished: make([]status.ChunkStatus, n),
		errs:     make([]error, n),
		progress: make([]int, n),
		pending:  n,
		first:    -1,
	}
	for i := range st.finished {
		st.finished[i] = status.PENDING
	}
	return st
}

func (st *runState) succeed(index int) bool {
	if st.finished[index] != status.PENDING {
		return false
	}
	st.finished[index] = status.SUCCESS
	st.pending--
	return true
}

func (st *runState) fail(index int, err error) bool {
	if st.finished[index] != status.PENDING {
		return false
	}
	st.finished[index] = status.FAILED
	st.errs[index] = err
	st.pending--
	if st.first < 0 {
		st.first = index
	}
	return true
}

func (st *runState) overall() status.ChunkStatus {
	return status.Overall(st.finished)
}

// err is the first failure observed, in arrival order.
func (st *runState) err() error {
	if st.first < 0 {
		return nil
	}
	return st.errs[st.first]
}

// reduceResults hands results, already in chunk order, to the adapter.
func reduceResults(adapter Adapter, results []interface{}, meta interface{}) (result interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewBatchError(ErrCodeGeneral, "panic in reduce", fmt.Errorf("panic:%v", p))
		}
	}()
	result, err = adapter.Reduce(results, meta)
	if err != nil {
		return nil, NewBatchError(ErrCodeGeneral, "reduce of %v partial results failed", len(results), err)
	}
	return result, nil
}

// ConcatSlices concatenates slice partials in order. nil partials are skipped,
// and empty is returned when there is nothing to concatenate.
func ConcatSlices(partials []interface{}, empty interface{}) (interface{}, error) {
	var out reflect.Value
	for i, p := range partials {
		if p == nil {
			continue
		}
		v := reflect.ValueOf(p)
		if v.Kind() != reflect.Slice {
			return nil, fmt.Errorf("partial result %d is %T, not a slice", i, p)
		}
		if !out.IsValid() {
			out = reflect.MakeSlice(v.Type(), 0, v.Len()*len(partials))
		} else if v.Type() != out.Type() {
			return nil, fmt.Errorf("partial result %d is %T, expected %v", i, p, out.Type())
		}
		out = reflect.AppendSlice(out, v)
	}
	if !out.IsValid() {
		return empty, nil
	}
	return out.Interface(), nil
}
