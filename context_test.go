package gochunk

import (
	"context"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/chararch/gochunk/util"
)

func TestParams_Get(t *testing.T) {
	p := NewParams()
	assert.Equal(t, nil, p.Get("key"))
	assert.Equal(t, "def", p.Get("key", "def"))

	p.Put("key", "1111").Put("window", 3).Put("ratio", 0.5).Put("skip", true)
	assert.Equal(t, "1111", p.Get("key"))
	w, err := p.GetInt("window")
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, w)
	r, err := p.GetFloat("ratio")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0.5, r)
	s, _ := p.GetBool("skip")
	assert.T(t, s)
	_, err = p.GetString("window")
	assert.NotEqual(t, nil, err)
	d, _ := p.GetInt("missing", 7)
	assert.Equal(t, 7, d)
}

func TestParams_Nil(t *testing.T) {
	var p *Params
	assert.T(t, !p.Exists("key"))
	assert.Equal(t, nil, p.Get("key"))
	v, err := p.GetString("key", "x")
	assert.Equal(t, nil, err)
	assert.Equal(t, "x", v)
	assert.T(t, p.DeepCopy() != nil)
}

func TestParams_MarshalJSON(t *testing.T) {
	p := NewParams().Put("count", 100).Put("name", "rolling")
	json, err := util.JsonString(p)
	assert.Equal(t, nil, err)
	assert.Equal(t, `{"count":100,"name":"rolling"}`, json)

	var none *Params
	assert.Equal(t, "null", util.LogString(none))
}

func TestChunkContext_Err(t *testing.T) {
	cctx := &ChunkContext{}
	assert.Equal(t, nil, cctx.Err())

	ctx, cancel := context.WithCancel(context.Background())
	cctx = &ChunkContext{ctx: ctx}
	cancel()
	assert.Equal(t, context.Canceled, cctx.Err())
}
