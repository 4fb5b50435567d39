package model

import (
	"fmt"

	"github.com/limaJavier/confsched/pkg/lp"
)

// Space gives a unique variable to every (event, slot, room) combination and vice versa.
// Variables are event-major: v = event*slots*rooms + slot*rooms + room
type Space struct {
	events int
	slots  int
	rooms  int
}

func NewSpace(events, slots, rooms int) (*Space, error) {
	if events <= 0 || slots <= 0 || rooms <= 0 {
		return nil, fmt.Errorf("%w: %d events, %d slots and %d rooms", ErrDegenerateInput, events, slots, rooms)
	}
	return &Space{events: events, slots: slots, rooms: rooms}, nil
}

// Returns the variable of a combination of attributes
func (space *Space) Var(event, slot, room int) lp.Var {
	return lp.Var(event*space.slots*space.rooms + slot*space.rooms + room)
}

// Returns the combination of attributes of a variable
func (space *Space) Attributes(v lp.Var) (event, slot, room int) {
	index := int(v)
	room = index % space.rooms
	index = index / space.rooms

	slot = index % space.slots
	index = index / space.slots

	event = index
	return event, slot, room
}

func (space *Space) Name(v lp.Var) string {
	event, slot, room := space.Attributes(v)
	return fmt.Sprintf("x[%d,%d,%d]", event, slot, room)
}

func (space *Space) Len() int {
	return space.events * space.slots * space.rooms
}

func (space *Space) Dims() (events, slots, rooms int) {
	return space.events, space.slots, space.rooms
}

// Column of a (slot, room) position in an assignment matrix
func (space *Space) Column(slot, room int) int {
	return slot*space.rooms + room
}

// Sum of the variables of an event in a slot over every room
func (space *Space) slotSum(event, slot int) lp.Expr {
	vars := make([]lp.Var, space.rooms)
	for room := range space.rooms {
		vars[room] = space.Var(event, slot, room)
	}
	return lp.Sum(vars...)
}
