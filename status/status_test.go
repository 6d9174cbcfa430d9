package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkStatus_And(t *testing.T) {
	assert.Equal(t, PENDING, SUCCESS.And(PENDING))
	assert.Equal(t, FAILED, PENDING.And(FAILED))
	assert.Equal(t, FAILED, FAILED.And(SUCCESS))
	assert.Equal(t, SUCCESS, SUCCESS.And(SUCCESS))
	assert.Equal(t, ChunkStatus("BOGUS"), SUCCESS.And("BOGUS"))
}

func TestOverall(t *testing.T) {
	assert.Equal(t, SUCCESS, Overall(nil))
	assert.Equal(t, SUCCESS, Overall([]ChunkStatus{SUCCESS, SUCCESS}))
	assert.Equal(t, PENDING, Overall([]ChunkStatus{SUCCESS, PENDING}))
	assert.Equal(t, FAILED, Overall([]ChunkStatus{PENDING, FAILED, SUCCESS}))
	assert.True(t, FAILED.Terminal())
	assert.False(t, PENDING.Terminal())
}
