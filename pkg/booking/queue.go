package booking

import (
	"container/heap"
	"math"
)

const (
	PriorityNormal    = 10
	PriorityEmergency = 100
	// PriorityCancelled sorts after every live ticket.
	PriorityCancelled = math.MaxInt32
)

type queueEntry struct {
	ticketID string
	priority int
	seq      int
}

type entryHeap []queueEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}

	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(queueEntry)) }

func (h *entryHeap) Pop() any {
	old := *h
	entry := old[len(old)-1]
	*h = old[:len(old)-1]
	return entry
}

// ticketQueue pops the lowest priority value first, equal priorities in push order.
type ticketQueue struct {
	entries entryHeap
	seq     int
}

func (q *ticketQueue) push(ticketID string, priority int) {
	q.seq++
	heap.Push(&q.entries, queueEntry{ticketID: ticketID, priority: priority, seq: q.seq})
}

func (q *ticketQueue) peek() (string, bool) {
	if len(q.entries) == 0 {
		return "", false
	}

	return q.entries[0].ticketID, true
}

func (q *ticketQueue) pop() (string, bool) {
	if len(q.entries) == 0 {
		return "", false
	}

	return heap.Pop(&q.entries).(queueEntry).ticketID, true
}

// updatePriority finds the entry by linear scan and re-inserts it under the new priority.
func (q *ticketQueue) updatePriority(ticketID string, priority int) bool {
	for i, entry := range q.entries {
		if entry.ticketID == ticketID {
			heap.Remove(&q.entries, i)
			q.push(ticketID, priority)
			return true
		}
	}

	return false
}

func (q *ticketQueue) len() int {
	return len(q.entries)
}
