package gochunk

import "fmt"

// Chunk is a contiguous range [Start, End) over the items of a collection.
// Lookback extends the readable range backwards for windowed operations,
// see ReadStart.
type Chunk struct {
	Index    int
	Start    int
	End      int
	Lookback int
}

//Len number of items owned by the chunk
func (c Chunk) Len() int {
	return c.End - c.Start
}

//ReadStart first item a windowed operation may read, never below 0
func (c Chunk) ReadStart() int {
	if c.Start-c.Lookback < 0 {
		return 0
	}
	return c.Start - c.Lookback
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk:%d[%d,%d)", c.Index, c.Start, c.End)
}

// Plan splits itemCount items into at most workerCount near-equal contiguous chunks.
// When there are no more items than workers every item gets its own chunk. A
// workerCount of 0 yields a single chunk holding every item.
func Plan(itemCount, workerCount, lookback int) ([]Chunk, BatchError) {
	if itemCount < 0 || workerCount < 0 || lookback < 0 {
		return nil, NewBatchError(ErrCodePlanning, "invalid chunk parameters, itemCount:%v, workerCount:%v, lookback:%v", itemCount, workerCount, lookback)
	}
	if itemCount == 0 {
		return []Chunk{}, nil
	}
	if workerCount == 0 {
		workerCount = 1
	}
	if itemCount <= workerCount {
		chunks := make([]Chunk, itemCount)
		for i := range chunks {
			chunks[i] = Chunk{Index: i, Start: i, End: i + 1, Lookback: lookback}
		}
		return chunks, nil
	}
	quotient, remainder := itemCount/workerCount, itemCount%workerCount
	chunks := make([]Chunk, workerCount)
	start := 0
	for i := range chunks {
		size := quotient
		if i < remainder {
			size++
		}
		chunks[i] = Chunk{Index: i, Start: start, End: start + size, Lookback: lookback}
		start += size
	}
	return chunks, nil
}
