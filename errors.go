package gochunk

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type BatchError interface {
	Code() string
	Message() string
	Error() string
	Cause() error
	Unwrap() error
}

type batchErr struct {
	code   string
	msg    string
	cause  error
	// origin records the stack at construction
	origin error
}

func (err *batchErr) Code() string {
	return err.code
}

func (err *batchErr) Message() string {
	return err.msg
}

func (err *batchErr) Error() string {
	if err.cause != nil {
		return fmt.Sprintf("batch err, code:%v, message:%v, cause:%v", err.code, err.msg, err.cause)
	}
	return fmt.Sprintf("batch err, code:%v, message:%v", err.code, err.msg)
}

func (err *batchErr) Cause() error {
	return err.cause
}

func (err *batchErr) Unwrap() error {
	return err.cause
}

func (err *batchErr) StackTrace() errors.StackTrace {
	if st, ok := err.origin.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func (err *batchErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, err.Error())
			if err.cause != nil {
				fmt.Fprintf(s, "\ncaused by: %+v", err.cause)
			}
			err.StackTrace().Format(s, verb)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// NewBatchError formats msg with args, a trailing error argument is kept as the cause
// and is not consumed by the format.
func NewBatchError(code string, msg string, args ...interface{}) BatchError {
	var cause error
	if len(args) > 0 {
		if e, ok := args[len(args)-1].(error); ok {
			cause = e
			args = args[:len(args)-1]
		}
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &batchErr{
		code:   code,
		msg:    msg,
		cause:  cause,
		origin: errors.New(msg),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// IsCode reports whether any BatchError in err's chain carries code.
func IsCode(err error, code string) bool {
	for err != nil {
		if be, ok := err.(BatchError); ok && be.Code() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

const (
	ErrCodePlanning      = "planning"
	ErrCodeTransport     = "transport"
	ErrCodeConfiguration = "configuration"
	ErrCodeWorker        = "worker"
	ErrCodePool          = "pool"
	ErrCodeGeneral       = "general"
)

var (
	PoolClosedError BatchError = &batchErr{code: ErrCodePool, msg: "worker pool is closed"}
	NoAdapterError  BatchError = &batchErr{code: ErrCodeGeneral, msg: "no adapter is specified"}
)
