package gochunk

import "github.com/chararch/gochunk/status"

//ChunkListener receives the status events of every chunk of a run, always on the orchestrator goroutine
type ChunkListener interface {
	//OnInputConsumed a worker has read the input of chunk index
	OnInputConsumed(index int)
	//OnProgress processed item counts of all chunks, called at a throttled rate
	OnProgress(progress []int)
	//OnSuccess chunk index has finished successfully
	OnSuccess(index int)
	//OnError chunk index has failed with err
	OnError(index int, err error)
}

//RunListener listener of a whole parallel run
type RunListener interface {
	//BeforeRun execute after staging, sizes are the declared sizes of the chunks
	BeforeRun(sizes []int)
	//AfterRun execute once every chunk is terminal, before results are fetched
	AfterRun(overall status.ChunkStatus)
}

type listeners struct {
	chunk []ChunkListener
	run   []RunListener
}

func (ls *listeners) add(l interface{}) bool {
	added := false
	if cl, ok := l.(ChunkListener); ok {
		ls.chunk = append(ls.chunk, cl)
		added = true
	}
	if rl, ok := l.(RunListener); ok {
		ls.run = append(ls.run, rl)
		added = true
	}
	return added
}

func (ls *listeners) beforeRun(sizes []int) {
	for _, l := range ls.run {
		l.BeforeRun(sizes)
	}
}

func (ls *listeners) afterRun(overall status.ChunkStatus) {
	for _, l := range ls.run {
		l.AfterRun(overall)
	}
}

func (ls *listeners) inputConsumed(index int) {
	for _, l := range ls.chunk {
		l.OnInputConsumed(index)
	}
}

func (ls *listeners) progress(progress []int) {
	if len(ls.chunk) == 0 {
		return
	}
	snapshot := append([]int(nil), progress...)
	for _, l := range ls.chunk {
		l.OnProgress(snapshot)
	}
}

func (ls *listeners) success(index int) {
	for _, l := range ls.chunk {
		l.OnSuccess(index)
	}
}

func (ls *listeners) failure(index int, err error) {
	for _, l := range ls.chunk {
		l.OnError(index, err)
	}
}
