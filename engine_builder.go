package gochunk

import (
	"context"
	"io"
	"os"

	"github.com/chararch/gochunk/file"
)

type engineBuilder struct {
	workers        int
	mode           TransportMode
	memoryDir      string
	progress       bool
	progressPeriod int
	progressOut    io.Writer
	instrument     Instrument
	listeners      []interface{}
	cancelOnError  bool
	verbose        bool
}

//NewEngine new instance of engine builder
func NewEngine() *engineBuilder {
	return &engineBuilder{
		workers:        DefaultWorkers(),
		mode:           Auto,
		progressPeriod: DefaultProgressPeriod,
		progressOut:    os.Stderr,
	}
}

func (builder *engineBuilder) Workers(workers int) *engineBuilder {
	builder.workers = workers
	return builder
}

func (builder *engineBuilder) Transport(mode TransportMode) *engineBuilder {
	builder.mode = mode
	return builder
}

func (builder *engineBuilder) MemoryDir(dir string) *engineBuilder {
	builder.memoryDir = dir
	return builder
}

func (builder *engineBuilder) Progress(progress bool) *engineBuilder {
	builder.progress = progress
	return builder
}

func (builder *engineBuilder) ProgressPeriod(period int) *engineBuilder {
	builder.progressPeriod = period
	return builder
}

func (builder *engineBuilder) ProgressWriter(w io.Writer) *engineBuilder {
	builder.progressOut = w
	return builder
}

//Instrument replaces the progress instrumentation of the transform function
func (builder *engineBuilder) Instrument(instrument Instrument) *engineBuilder {
	builder.instrument = instrument
	return builder
}

func (builder *engineBuilder) Listener(listener ...interface{}) *engineBuilder {
	builder.listeners = append(builder.listeners, listener...)
	return builder
}

func (builder *engineBuilder) CancelOnError(cancel bool) *engineBuilder {
	builder.cancelOnError = cancel
	return builder
}

func (builder *engineBuilder) Verbose(verbose bool) *engineBuilder {
	builder.verbose = verbose
	return builder
}

func (builder *engineBuilder) Build() (*Engine, error) {
	if builder.workers < 1 {
		return nil, NewBatchError(ErrCodeConfiguration, "workers must be positive, got:%v", builder.workers)
	}
	if builder.progressPeriod < 1 {
		return nil, NewBatchError(ErrCodeConfiguration, "progress period must be positive, got:%v", builder.progressPeriod)
	}
	classified := &listeners{}
	for _, l := range builder.listeners {
		if !classified.add(l) {
			return nil, NewBatchError(ErrCodeConfiguration, "not supported listener:%T", l)
		}
	}
	transport, err := ResolveTransport(builder.mode, builder.memoryDir)
	if err != nil {
		return nil, err
	}
	pool, err := newTaskPool(builder.workers)
	if err != nil {
		return nil, err
	}
	instrument := builder.instrument
	if instrument == nil && (builder.progress || len(classified.chunk) > 0) {
		instrument = EveryN(builder.progressPeriod)
	}
	out := builder.progressOut
	if out == nil {
		out = os.Stderr
	}
	engine := &Engine{
		pool:          pool,
		transport:     transport,
		workers:       builder.workers,
		progress:      builder.progress,
		progressOut:   out,
		instrument:    instrument,
		listeners:     builder.listeners,
		cancelOnError: builder.cancelOnError,
		verbose:       builder.verbose,
	}
	if builder.verbose {
		ctx := context.Background()
		logger.Info(ctx, "gochunk engine ready, workers:%v", engine.workers)
		switch transport.Mode() {
		case SharedFile:
			dir := builder.memoryDir
			if dir == "" {
				dir = file.MemoryFSRoot
			}
			logger.Info(ctx, "chunks are transferred through shared memory files, dir:%v", dir)
		default:
			logger.Info(ctx, "chunks are transferred inline, shared memory file system is not used")
		}
	}
	return engine, nil
}
