package ops

import (
	"fmt"
	"math"

	"github.com/chararch/gochunk"
)

// Rolling is a series seen through a moving window. Each position covers the
// Window values ending at it; positions with fewer than MinPeriods values
// yield NaN. A MinPeriods of 0 means Window.
type Rolling struct {
	Values     []float64
	Window     int
	MinPeriods int
}

//NewRolling rolling view of values
func NewRolling(values []float64, window, minPeriods int) Rolling {
	return Rolling{Values: values, Window: window, MinPeriods: minPeriods}
}

func (r Rolling) minPeriods() int {
	if r.MinPeriods <= 0 {
		return r.Window
	}
	return r.MinPeriods
}

type rollingMeta struct {
	Window     int
	MinPeriods int
}

// rollingChunk carries the lookback values before the rows it owns.
type rollingChunk struct {
	Values []float64
	Skip   int
}

func (c rollingChunk) Size() int {
	return len(c.Values) - c.Skip
}

// RollingAdapter calls fn(window []float64) for every position of a Rolling
// and expects a float64 back.
type RollingAdapter struct{}

func (r Rolling) meta() rollingMeta {
	return rollingMeta{Window: r.Window, MinPeriods: r.minPeriods()}
}

func (RollingAdapter) WorkerMeta(data interface{}) interface{} {
	if r, ok := data.(Rolling); ok {
		return r.meta()
	}
	return nil
}

func (RollingAdapter) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	r, ok := data.(Rolling)
	if !ok {
		return nil, dataError(NameRolling, data)
	}
	if r.Window < 1 {
		return nil, gochunk.NewBatchError(gochunk.ErrCodePlanning, "rolling window must be positive, got:%v", r.Window)
	}
	chunks, err := gochunk.Plan(len(r.Values), workers, r.Window)
	if err != nil {
		return nil, err
	}
	payloads := make([]interface{}, len(chunks))
	for i, c := range chunks {
		payloads[i] = rollingChunk{
			Values: r.Values[c.ReadStart():c.End],
			Skip:   c.Start - c.ReadStart(),
		}
	}
	return payloads, nil
}

func (RollingAdapter) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	rc, ok := chunk.(rollingChunk)
	if !ok {
		return nil, chunkError(NameRolling, chunk)
	}
	meta, ok := cctx.Meta.(rollingMeta)
	if !ok {
		return nil, fmt.Errorf("rolling window attributes are missing")
	}
	return roll(cctx, rc.Values, rc.Skip, meta, fn, args...)
}

// roll applies fn to the window ending at every position from skip on.
func roll(cctx *gochunk.ChunkContext, values []float64, skip int, meta rollingMeta, fn gochunk.Func, args ...interface{}) ([]float64, error) {
	out := make([]float64, 0, len(values)-skip)
	for pos := skip; pos < len(values); pos++ {
		if err := cctx.Err(); err != nil {
			return nil, err
		}
		start := pos - meta.Window + 1
		if start < 0 {
			start = 0
		}
		window := values[start : pos+1]
		if len(window) < meta.MinPeriods {
			out = append(out, math.NaN())
			continue
		}
		v, err := fn(window, args...)
		if err != nil {
			return nil, err
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("rolling function returned %T, expected float64", v)
		}
		out = append(out, f)
	}
	return out, nil
}

func (RollingAdapter) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	return gochunk.ConcatSlices(partials, []float64{})
}

//Mean arithmetic mean of a window
func Mean(item interface{}, args ...interface{}) (interface{}, error) {
	window, ok := item.([]float64)
	if !ok {
		return nil, fmt.Errorf("mean expects []float64, got %T", item)
	}
	if len(window) == 0 {
		return math.NaN(), nil
	}
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window)), nil
}
