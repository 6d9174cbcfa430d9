package gochunk

import "fmt"

//EventKind lifecycle event kind of a chunk
type EventKind int

const (
	//InputConsumed worker has read its chunk, the input side may be released
	InputConsumed EventKind = iota
	//Progress worker reports how many items of its chunk it has processed
	Progress
	//Success chunk result has been written
	Success
	//Error chunk failed, no result will be written
	Error
)

func (k EventKind) String() string {
	switch k {
	case InputConsumed:
		return "InputConsumed"
	case Progress:
		return "Progress"
	case Success:
		return "Success"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

//Terminal whether no further event follows for the chunk
func (k EventKind) Terminal() bool {
	return k == Success || k == Error
}

// StatusEvent travels from a worker to the orchestrator. Processed is only set for
// Progress and is cumulative; Err is only set for Error.
type StatusEvent struct {
	Kind      EventKind
	Index     int
	Processed int
	Err       error
}

// statusChannel is the multi producer, single consumer queue shared by the
// workers of one run.
type statusChannel struct {
	ch chan StatusEvent
}

func newStatusChannel(workers int) *statusChannel {
	if workers < 1 {
		workers = 1
	}
	return &statusChannel{ch: make(chan StatusEvent, workers*DefaultEventBuffer)}
}

// send blocks, lifecycle events must never be lost.
func (s *statusChannel) send(ev StatusEvent) {
	s.ch <- ev
}

// tick never blocks a worker. A dropped tick is superseded by the next one
// since counts are cumulative.
func (s *statusChannel) tick(index, processed int) {
	select {
	case s.ch <- StatusEvent{Kind: Progress, Index: index, Processed: processed}:
	default:
	}
}

func (s *statusChannel) events() <-chan StatusEvent {
	return s.ch
}
