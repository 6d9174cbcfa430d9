package ops

import (
	"github.com/chararch/gochunk"
)

//Apply calls fn(item, args...) on every item of a []interface{}
type Apply struct{}

func (Apply) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	items, ok := data.([]interface{})
	if !ok {
		return nil, dataError(NameApply, data)
	}
	return splitList(workers, items)
}

func (Apply) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	items, ok := chunk.([]interface{})
	if !ok {
		return nil, chunkError(NameApply, chunk)
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		if err := cctx.Err(); err != nil {
			return nil, err
		}
		v, err := fn(item, args...)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (Apply) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	return gochunk.ConcatSlices(partials, []interface{}{})
}

//Map calls fn(item) on every item, extra arguments are ignored and nil items are kept as they are
type Map struct{}

func (Map) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	items, ok := data.([]interface{})
	if !ok {
		return nil, dataError(NameMap, data)
	}
	return splitList(workers, items)
}

func (Map) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	items, ok := chunk.([]interface{})
	if !ok {
		return nil, chunkError(NameMap, chunk)
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		if err := cctx.Err(); err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (Map) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	return gochunk.ConcatSlices(partials, []interface{}{})
}
