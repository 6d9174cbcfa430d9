package gochunk

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

//Params keyword arguments handed to every chunk of a run
type Params struct {
	kvs map[string]interface{}
}

//NewParams new instance
func NewParams() *Params {
	return &Params{kvs: map[string]interface{}{}}
}

func (p *Params) Put(key string, value interface{}) *Params {
	p.kvs[key] = value
	return p
}

func (p *Params) Exists(key string) bool {
	if p == nil {
		return false
	}
	return p.kvs[key] != nil
}

func (p *Params) Get(key string, def ...interface{}) interface{} {
	var val interface{}
	if p != nil {
		val = p.kvs[key]
	}
	if val == nil && len(def) > 0 {
		val = def[0]
	}
	return val
}

func (p *Params) GetInt(key string, def ...int) (int, error) {
	v := p.Get(key)
	if v == nil && len(def) > 0 {
		return def[0], nil
	}
	switch r := v.(type) {
	case int:
		return r, nil
	case int32:
		return int(r), nil
	case int64:
		return int(r), nil
	case uint:
		return int(r), nil
	case uint32:
		return int(r), nil
	case uint64:
		return int(r), nil
	case float64:
		return int(r), nil
	}
	return 0, errors.Errorf("value is nil or not int: %v", v)
}

func (p *Params) GetFloat(key string, def ...float64) (float64, error) {
	v := p.Get(key)
	if v == nil && len(def) > 0 {
		return def[0], nil
	}
	switch r := v.(type) {
	case float64:
		return r, nil
	case float32:
		return float64(r), nil
	case int:
		return float64(r), nil
	case int64:
		return float64(r), nil
	}
	return 0, errors.Errorf("value is nil or not float: %v", v)
}

func (p *Params) GetString(key string, def ...string) (string, error) {
	v := p.Get(key)
	if v == nil && len(def) > 0 {
		return def[0], nil
	}
	if r, ok := v.(string); ok {
		return r, nil
	}
	return "", errors.Errorf("value is nil or not string: %v", v)
}

func (p *Params) GetBool(key string, def ...bool) (bool, error) {
	v := p.Get(key)
	if v == nil && len(def) > 0 {
		return def[0], nil
	}
	if r, ok := v.(bool); ok {
		return r, nil
	}
	return false, errors.Errorf("value is nil or not bool: %v", v)
}

//DeepCopy copies the key set, values are shared
func (p *Params) DeepCopy() *Params {
	result := NewParams()
	if p == nil {
		return result
	}
	for key, value := range p.kvs {
		result.Put(key, value)
	}
	return result
}

//MarshalJSON the key value pairs as a json object, used in log lines
func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.kvs)
}

// ChunkContext is what a worker knows about the chunk it is transforming.
type ChunkContext struct {
	Index  int
	Meta   interface{}
	Args   []interface{}
	Params *Params
	ctx    context.Context
}

//Context run context, cancelled when the run is abandoned
func (c *ChunkContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

//Err non nil once the run has been cancelled, adapters check it between items
func (c *ChunkContext) Err() error {
	return c.Context().Err()
}
