package gochunk

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chararch/gochunk/file"
)

// Func is the user transform. Adapters decide what an item is: a row, a cell,
// a window of values or a whole group.
type Func func(item interface{}, args ...interface{}) (interface{}, error)

// Adapter connects one kind of collection operation to the engine.
//
// Chunks splits data into ordered chunk payloads, usually by calling Plan.
// Work runs on a worker and transforms one decoded chunk payload.
// Reduce combines the partial results, given in chunk order.
type Adapter interface {
	Chunks(workers int, data interface{}, args ...interface{}) ([]interface{}, error)
	Work(cctx *ChunkContext, chunk interface{}, fn Func, args ...interface{}) (interface{}, error)
	Reduce(partials []interface{}, meta interface{}) (interface{}, error)
}

//WorkerMetaProvider optional, derives arguments shared by every chunk from data
type WorkerMetaProvider interface {
	WorkerMeta(data interface{}) interface{}
}

//ReduceMetaProvider optional, derives arguments needed by Reduce from data
type ReduceMetaProvider interface {
	ReduceMeta(data interface{}) interface{}
}

//Sizer chunk payloads implementing it declare how many progress ticks a chunk is worth
type Sizer interface {
	Size() int
}

//Register registers a concrete type carried inside chunk payloads or results
func Register(value interface{}) {
	file.Register(value)
}

var (
	adapterMu       sync.RWMutex
	adapterRegistry = make(map[string]Adapter)
)

// RegisterAdapter register adapter to gochunk under name
func RegisterAdapter(name string, adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter with name:%v must not be nil", name)
	}
	adapterMu.Lock()
	defer adapterMu.Unlock()
	if _, ok := adapterRegistry[name]; ok {
		return fmt.Errorf("adapter with name:%v has already been registered", name)
	}
	adapterRegistry[name] = adapter
	return nil
}

// UnregisterAdapter unregister adapter from gochunk
func UnregisterAdapter(name string) {
	adapterMu.Lock()
	defer adapterMu.Unlock()
	delete(adapterRegistry, name)
}

// LookupAdapter find a registered adapter by name
func LookupAdapter(name string) (Adapter, bool) {
	adapterMu.RLock()
	defer adapterMu.RUnlock()
	a, ok := adapterRegistry[name]
	return a, ok
}

// AdapterNames sorted names of registered adapters
func AdapterNames() []string {
	adapterMu.RLock()
	defer adapterMu.RUnlock()
	names := make([]string, 0, len(adapterRegistry))
	for name := range adapterRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
