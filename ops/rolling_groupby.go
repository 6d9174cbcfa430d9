package ops

import (
	"fmt"

	"github.com/chararch/gochunk"
)

// RollingGroups is a rolling view applied to every group separately. Group
// rows must be float64 values.
type RollingGroups struct {
	Groups     []Group
	Window     int
	MinPeriods int
}

//NewRollingGroups rolling view over each of groups
func NewRollingGroups(groups []Group, window, minPeriods int) RollingGroups {
	return RollingGroups{Groups: groups, Window: window, MinPeriods: minPeriods}
}

type rollingGroupChunk struct {
	Groups []Group
}

//Size one progress tick per row
func (c rollingGroupChunk) Size() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Rows)
	}
	return n
}

// RollingGroupBy calls fn(window []float64) for every row of every group, the
// windows never cross a group boundary. The chunks are runs of whole groups and
// the result is a []GroupResult holding one []float64 per group, in group order.
type RollingGroupBy struct{}

func (RollingGroupBy) WorkerMeta(data interface{}) interface{} {
	rg, ok := data.(RollingGroups)
	if !ok {
		return nil
	}
	return Rolling{Window: rg.Window, MinPeriods: rg.MinPeriods}.meta()
}

func (RollingGroupBy) ReduceMeta(data interface{}) interface{} {
	if rg, ok := data.(RollingGroups); ok {
		return GroupBy{}.ReduceMeta(rg.Groups)
	}
	return nil
}

func (RollingGroupBy) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	rg, ok := data.(RollingGroups)
	if !ok {
		return nil, dataError(NameRollingGroupBy, data)
	}
	if rg.Window < 1 {
		return nil, gochunk.NewBatchError(gochunk.ErrCodePlanning, "rolling window must be positive, got:%v", rg.Window)
	}
	chunks, err := gochunk.Plan(len(rg.Groups), workers, 0)
	if err != nil {
		return nil, err
	}
	payloads := make([]interface{}, len(chunks))
	for i, c := range chunks {
		payloads[i] = rollingGroupChunk{Groups: rg.Groups[c.Start:c.End]}
	}
	return payloads, nil
}

func (RollingGroupBy) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	rc, ok := chunk.(rollingGroupChunk)
	if !ok {
		return nil, chunkError(NameRollingGroupBy, chunk)
	}
	meta, ok := cctx.Meta.(rollingMeta)
	if !ok {
		return nil, fmt.Errorf("rolling window attributes are missing")
	}
	out := make([]GroupResult, len(rc.Groups))
	for i, g := range rc.Groups {
		values := make([]float64, len(g.Rows))
		for j, row := range g.Rows {
			f, ok := row.(float64)
			if !ok {
				return nil, fmt.Errorf("group %v row %d is %T, expected float64", g.Key, j, row)
			}
			values[j] = f
		}
		rolled, err := roll(cctx, values, 0, meta, fn, args...)
		if err != nil {
			return nil, err
		}
		out[i] = GroupResult{Key: g.Key, Value: rolled}
	}
	return out, nil
}

func (RollingGroupBy) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	return GroupBy{}.Reduce(partials, meta)
}
