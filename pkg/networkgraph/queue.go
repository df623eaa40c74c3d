package networkgraph

// searchState is a stop reached while riding a given route, "" before the first edge.
type searchState struct {
	stop  string
	route string
}

type queueItem struct {
	cost  float64
	state searchState
	seq   int
}

type stateQueue []queueItem

func (q stateQueue) Len() int { return len(q) }

func (q stateQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}

	return q[i].seq < q[j].seq
}

func (q stateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stateQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *stateQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
