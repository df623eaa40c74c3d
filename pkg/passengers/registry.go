package passengers

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

const (
	noNode   = -1
	idLength = 8
)

type treeNode struct {
	id     string
	record ctdf.PassengerRecord
	left   int
	right  int
}

// Registry is an unbalanced binary search tree of passengers keyed by id.
// Nodes live in a table and link to each other by index.
type Registry struct {
	Now func() time.Time

	nodes []treeNode
	root  int

	newID func() string
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}

	return &Registry{
		Now:   now,
		root:  noNode,
		newID: shortID,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

func (r *Registry) Len() int {
	return len(r.nodes)
}

// Insert places the record under id. Equal ids go to the right subtree.
func (r *Registry) Insert(id string, record ctdf.PassengerRecord) {
	record.PassengerID = id

	r.nodes = append(r.nodes, treeNode{id: id, record: record, left: noNode, right: noNode})
	inserted := len(r.nodes) - 1

	if r.root == noNode {
		r.root = inserted
		return
	}

	current := r.root
	for {
		node := &r.nodes[current]

		if id < node.id {
			if node.left == noNode {
				node.left = inserted
				return
			}
			current = node.left
		} else {
			if node.right == noNode {
				node.right = inserted
				return
			}
			current = node.right
		}
	}
}

func (r *Registry) find(id string) int {
	current := r.root
	for current != noNode {
		node := &r.nodes[current]

		switch {
		case id == node.id:
			return current
		case id < node.id:
			current = node.left
		default:
			current = node.right
		}
	}

	return noNode
}

func (r *Registry) Search(id string) (ctdf.PassengerRecord, error) {
	index := r.find(id)
	if index == noNode {
		return ctdf.PassengerRecord{}, errs.New(errs.ErrPassengerNotFound, "passenger %s does not exist", id)
	}

	return r.nodes[index].record, nil
}

// All lists every record in ascending id order.
func (r *Registry) All() []ctdf.PassengerRecord {
	records := make([]ctdf.PassengerRecord, 0, len(r.nodes))

	stack := []int{}
	current := r.root
	for current != noNode || len(stack) > 0 {
		for current != noNode {
			stack = append(stack, current)
			current = r.nodes[current].left
		}

		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		records = append(records, r.nodes[current].record)
		current = r.nodes[current].right
	}

	return records
}

// Register mints a fresh id and stores a passenger with no bookings.
func (r *Registry) Register(fullName string, email string, phone string, address string) ctdf.PassengerRecord {
	id := r.newID()
	for r.find(id) != noNode {
		id = r.newID()
	}

	record := ctdf.PassengerRecord{
		PassengerID:      id,
		FullName:         fullName,
		Email:            email,
		Phone:            phone,
		Address:          address,
		RegistrationDate: r.Now().Format(ctdf.TimestampFormat),
	}
	r.Insert(id, record)

	log.Debug().Str("passenger", id).Msg("Registered passenger")

	return record
}

// RecordBooking adds one booking and its fare to the passenger's totals.
func (r *Registry) RecordBooking(id string, fare float64) error {
	index := r.find(id)
	if index == noNode {
		return errs.New(errs.ErrPassengerNotFound, "passenger %s does not exist", id)
	}

	record := &r.nodes[index].record
	record.TotalBookings++
	record.TotalSpent += fare

	return nil
}

// Load replaces the registry with persisted records, inserted in the given order.
func (r *Registry) Load(records []ctdf.PassengerRecord) {
	r.nodes = make([]treeNode, 0, len(records))
	r.root = noNode

	for _, record := range records {
		r.Insert(record.PassengerID, record)
	}
}

// Snapshot lists the records in pre-order so that Load rebuilds the same tree shape.
func (r *Registry) Snapshot() []ctdf.PassengerRecord {
	records := make([]ctdf.PassengerRecord, 0, len(r.nodes))

	stack := []int{}
	if r.root != noNode {
		stack = append(stack, r.root)
	}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := r.nodes[current]
		records = append(records, node.record)

		if node.right != noNode {
			stack = append(stack, node.right)
		}
		if node.left != noNode {
			stack = append(stack, node.left)
		}
	}

	return records
}
