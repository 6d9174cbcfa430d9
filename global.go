package gochunk

import (
	"os"
	"runtime"

	"github.com/chararch/gochunk/internal/logs"
)

//log
var logger logs.Logger = logs.NewLogger(os.Stdout, logs.Info)

//SetLogger set a logger instance for GoChunk
func SetLogger(l logs.Logger) {
	logger = l
}

const (
	//DefaultProgressPeriod number of transformed items between two progress ticks
	DefaultProgressPeriod = 1
	//DefaultEventBuffer number of status events buffered per worker
	DefaultEventBuffer = 64
)

//DefaultWorkers number of pool slots when none is configured
func DefaultWorkers() int {
	return runtime.NumCPU()
}
