package gochunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
)

func TestBatchErr_Format(t *testing.T) {
	batchErr := NewBatchError(ErrCodeGeneral, "new error")
	assert.Equal(t, "batch err, code:general, message:new error", batchErr.Error())
	assert.Equal(t, nil, batchErr.Cause())
	detail := fmt.Sprintf("%+v", batchErr)
	assert.T(t, strings.Contains(detail, "errors_test.go"))

	err := fmt.Errorf("some error raised from worker")
	batchErr2 := NewBatchError(ErrCodeWorker, "chunk:%v failed", 3, err)
	assert.Equal(t, "chunk:3 failed", batchErr2.Message())
	assert.Equal(t, err, batchErr2.Cause())
	assert.Equal(t, err, errors.Cause(batchErr2))
	assert.T(t, errors.Is(batchErr2, err))
	assert.T(t, strings.Contains(fmt.Sprintf("%+v", batchErr2), "caused by: some error raised from worker"))
	assert.Equal(t, batchErr2.Error(), fmt.Sprintf("%v", batchErr2))
}

func TestIsCode(t *testing.T) {
	inner := NewBatchError(ErrCodeTransport, "stage chunk:%v", 1)
	wrapped := errors.Wrap(inner, "run failed")
	assert.T(t, IsCode(wrapped, ErrCodeTransport))
	assert.T(t, !IsCode(wrapped, ErrCodePool))
	assert.T(t, !IsCode(nil, ErrCodeTransport))
	assert.T(t, IsCode(PoolClosedError, ErrCodePool))
}
