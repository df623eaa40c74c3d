package fleet

import "github.com/travigo/transitops/pkg/ctdf"

const noHandle = -1

type slot struct {
	vehicle ctdf.Vehicle
	prev    int
	next    int
	used    bool
}

// vehicleList is a doubly linked list kept in a slot table, removed slots are reused.
type vehicleList struct {
	slots []slot
	free  []int
	head  int
	tail  int
	size  int
}

func newVehicleList() *vehicleList {
	return &vehicleList{head: noHandle, tail: noHandle}
}

func (l *vehicleList) append(vehicle ctdf.Vehicle) int {
	var handle int
	if len(l.free) > 0 {
		handle = l.free[len(l.free)-1]
		l.free = l.free[:len(l.free)-1]
	} else {
		handle = len(l.slots)
		l.slots = append(l.slots, slot{})
	}

	l.slots[handle] = slot{
		vehicle: vehicle,
		prev:    l.tail,
		next:    noHandle,
		used:    true,
	}

	if l.tail == noHandle {
		l.head = handle
	} else {
		l.slots[l.tail].next = handle
	}
	l.tail = handle
	l.size++

	return handle
}

func (l *vehicleList) remove(handle int) {
	s := &l.slots[handle]

	if s.prev == noHandle {
		l.head = s.next
	} else {
		l.slots[s.prev].next = s.next
	}

	if s.next == noHandle {
		l.tail = s.prev
	} else {
		l.slots[s.next].prev = s.prev
	}

	*s = slot{prev: noHandle, next: noHandle}
	l.free = append(l.free, handle)
	l.size--
}

func (l *vehicleList) find(id int) int {
	for handle := l.head; handle != noHandle; handle = l.slots[handle].next {
		if l.slots[handle].vehicle.ID == id {
			return handle
		}
	}

	return noHandle
}

func (l *vehicleList) get(handle int) *ctdf.Vehicle {
	return &l.slots[handle].vehicle
}

// each walks the list in insertion order until fn returns false.
func (l *vehicleList) each(fn func(handle int, vehicle *ctdf.Vehicle) bool) {
	for handle := l.head; handle != noHandle; handle = l.slots[handle].next {
		if !fn(handle, &l.slots[handle].vehicle) {
			return
		}
	}
}

func (l *vehicleList) maxID() int {
	maxID := 0
	l.each(func(_ int, vehicle *ctdf.Vehicle) bool {
		if vehicle.ID > maxID {
			maxID = vehicle.ID
		}
		return true
	})

	return maxID
}
