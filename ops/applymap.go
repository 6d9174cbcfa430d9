package ops

import (
	"github.com/chararch/gochunk"
)

//Table rows of cells
type Table [][]interface{}

type tableChunk struct {
	Rows [][]interface{}
}

//Size one progress tick per cell
func (c tableChunk) Size() int {
	n := 0
	for _, row := range c.Rows {
		n += len(row)
	}
	return n
}

//ApplyMap calls fn(cell, args...) on every cell of a Table, chunks are runs of rows
type ApplyMap struct{}

func (ApplyMap) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	var rows [][]interface{}
	switch t := data.(type) {
	case Table:
		rows = t
	case [][]interface{}:
		rows = t
	default:
		return nil, dataError(NameApplyMap, data)
	}
	chunks, err := gochunk.Plan(len(rows), workers, 0)
	if err != nil {
		return nil, err
	}
	payloads := make([]interface{}, len(chunks))
	for i, c := range chunks {
		payloads[i] = tableChunk{Rows: rows[c.Start:c.End]}
	}
	return payloads, nil
}

func (ApplyMap) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	tc, ok := chunk.(tableChunk)
	if !ok {
		return nil, chunkError(NameApplyMap, chunk)
	}
	out := make([][]interface{}, len(tc.Rows))
	for i, row := range tc.Rows {
		if err := cctx.Err(); err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			v, err := fn(cell, args...)
			if err != nil {
				return nil, err
			}
			cells[j] = v
		}
		out[i] = cells
	}
	return out, nil
}

func (ApplyMap) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	rows, err := gochunk.ConcatSlices(partials, [][]interface{}{})
	if err != nil {
		return nil, err
	}
	return Table(rows.([][]interface{})), nil
}
