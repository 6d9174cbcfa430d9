// Package ops holds the collection operations that run on a gochunk engine.
//
// Every operation is an adapter registered under its name, so it can be run
// either directly with Engine.Run or by name with Engine.RunNamed.
package ops

import (
	"fmt"

	"github.com/chararch/gochunk"
)

const (
	NameApply    = "apply"
	NameMap      = "map"
	NameApplyMap = "applymap"
	NameRolling  = "rolling"
	NameGroupBy  = "groupby"

	NameRollingGroupBy = "rolling_groupby"
)

func init() {
	gochunk.Register(tableChunk{})
	gochunk.Register(rollingChunk{})
	gochunk.Register(Group{})
	gochunk.Register([]Group{})
	gochunk.Register(GroupResult{})
	gochunk.Register([]GroupResult{})
	gochunk.Register(rollingGroupChunk{})
	for name, adapter := range map[string]gochunk.Adapter{
		NameApply:    Apply{},
		NameMap:      Map{},
		NameApplyMap: ApplyMap{},
		NameRolling:  RollingAdapter{},
		NameGroupBy:  GroupBy{},

		NameRollingGroupBy: RollingGroupBy{},
	} {
		if err := gochunk.RegisterAdapter(name, adapter); err != nil {
			panic(err)
		}
	}
}

// splitList cuts items into the contiguous runs planned for workers.
func splitList(workers int, items []interface{}) ([]interface{}, error) {
	chunks, err := gochunk.Plan(len(items), workers, 0)
	if err != nil {
		return nil, err
	}
	payloads := make([]interface{}, len(chunks))
	for i, c := range chunks {
		payloads[i] = items[c.Start:c.End]
	}
	return payloads, nil
}

func dataError(op string, data interface{}) error {
	return gochunk.NewBatchError(gochunk.ErrCodePlanning, "%v does not support data of type %T", op, data)
}

func chunkError(op string, chunk interface{}) error {
	return fmt.Errorf("%v received a chunk of type %T", op, chunk)
}
