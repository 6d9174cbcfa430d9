package status

//ChunkStatus status of a chunk during one parallel run
type ChunkStatus string

const (
	//PENDING chunk has been dispatched and has not reached a terminal state
	PENDING ChunkStatus = "PENDING"
	//SUCCESS chunk was transformed and its result is available
	SUCCESS ChunkStatus = "SUCCESS"
	//FAILED chunk transform or transport failed
	FAILED ChunkStatus = "FAILED"
)

var statuses = map[ChunkStatus]int{
	SUCCESS: 0,
	PENDING: 1,
	FAILED:  2,
}

//Terminal whether the status is final for a chunk
func (s ChunkStatus) Terminal() bool {
	return s == SUCCESS || s == FAILED
}

//And combines two statuses, the more severe one wins
func (s ChunkStatus) And(other ChunkStatus) ChunkStatus {
	i1, ok1 := statuses[s]
	i2, ok2 := statuses[other]
	if ok1 && ok2 {
		if i1 < i2 {
			return other
		} else {
			return s
		}
	} else if ok1 {
		return other
	} else {
		return s
	}
}

//Overall combines the statuses of all chunks of a run
func Overall(all []ChunkStatus) ChunkStatus {
	result := SUCCESS
	for _, s := range all {
		result = result.And(s)
	}
	return result
}
