package fleet

import (
	"container/heap"

	"github.com/travigo/transitops/pkg/ctdf"
)

type viewEntry struct {
	handle   int
	key      float64
	position int
}

// view is a binary heap of list handles. less decides the ordering of keys,
// equal keys fall back to list position.
type view struct {
	entries []viewEntry
	less    func(a, b float64) bool
}

func (v *view) Len() int { return len(v.entries) }

func (v *view) Less(i, j int) bool {
	a, b := v.entries[i], v.entries[j]
	if a.key != b.key {
		return v.less(a.key, b.key)
	}

	return a.position < b.position
}

func (v *view) Swap(i, j int) { v.entries[i], v.entries[j] = v.entries[j], v.entries[i] }

func (v *view) Push(x any) { v.entries = append(v.entries, x.(viewEntry)) }

func (v *view) Pop() any {
	old := v.entries
	entry := old[len(old)-1]
	v.entries = old[:len(old)-1]
	return entry
}

func (v *view) rebuild(list *vehicleList, key func(vehicle *ctdf.Vehicle) float64) {
	v.entries = v.entries[:0]

	position := 0
	list.each(func(handle int, vehicle *ctdf.Vehicle) bool {
		v.entries = append(v.entries, viewEntry{handle: handle, key: key(vehicle), position: position})
		position++
		return true
	})

	heap.Init(v)
}

func (v *view) peek() (int, bool) {
	if len(v.entries) == 0 {
		return noHandle, false
	}

	return v.entries[0].handle, true
}

// ordered drains a copy of the heap, the view itself is left untouched.
func (v *view) ordered() []int {
	clone := &view{entries: make([]viewEntry, len(v.entries)), less: v.less}
	copy(clone.entries, v.entries)

	handles := make([]int, 0, len(clone.entries))
	for clone.Len() > 0 {
		handles = append(handles, heap.Pop(clone).(viewEntry).handle)
	}

	return handles
}

func newArrivalView() *view {
	return &view{less: func(a, b float64) bool { return a < b }}
}

func newPriorityView() *view {
	return &view{less: func(a, b float64) bool { return a > b }}
}
