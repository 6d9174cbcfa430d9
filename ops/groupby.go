package ops

import (
	"github.com/chararch/gochunk"
)

//Group rows sharing one key
type Group struct {
	Key  string
	Rows []interface{}
}

//GroupResult value computed for the group Key
type GroupResult struct {
	Key   string
	Value interface{}
}

//GroupRows groups rows by keyFn, groups keep the order in which keys first appear
func GroupRows(rows []interface{}, keyFn func(row interface{}) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, row := range rows {
		key := keyFn(row)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// GroupBy calls fn(group, args...) once per Group; the chunks are runs of
// whole groups. The result is a []GroupResult in group order.
type GroupBy struct{}

//ReduceMeta position of every group key
func (GroupBy) ReduceMeta(data interface{}) interface{} {
	groups, ok := data.([]Group)
	if !ok {
		return nil
	}
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.Key] = i
	}
	return index
}

func (GroupBy) Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error) {
	groups, ok := data.([]Group)
	if !ok {
		return nil, dataError(NameGroupBy, data)
	}
	chunks, err := gochunk.Plan(len(groups), workers, 0)
	if err != nil {
		return nil, err
	}
	payloads := make([]interface{}, len(chunks))
	for i, c := range chunks {
		payloads[i] = groups[c.Start:c.End]
	}
	return payloads, nil
}

func (GroupBy) Work(cctx *gochunk.ChunkContext, chunk interface{}, fn gochunk.Func, args ...interface{}) (interface{}, error) {
	groups, ok := chunk.([]Group)
	if !ok {
		return nil, chunkError(NameGroupBy, chunk)
	}
	out := make([]GroupResult, len(groups))
	for i, g := range groups {
		if err := cctx.Err(); err != nil {
			return nil, err
		}
		v, err := fn(g, args...)
		if err != nil {
			return nil, err
		}
		out[i] = GroupResult{Key: g.Key, Value: v}
	}
	return out, nil
}

func (GroupBy) Reduce(partials []interface{}, meta interface{}) (interface{}, error) {
	merged, err := gochunk.ConcatSlices(partials, []GroupResult{})
	if err != nil {
		return nil, err
	}
	results := merged.([]GroupResult)
	index, ok := meta.(map[string]int)
	if !ok || len(index) != len(results) {
		return results, nil
	}
	ordered := make([]GroupResult, len(results))
	for _, r := range results {
		ordered[index[r.Key]] = r
	}
	return ordered, nil
}
