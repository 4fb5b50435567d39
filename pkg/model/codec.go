package model

import (
	"fmt"
	"slices"

	"github.com/limaJavier/confsched/pkg/lp"
	"gonum.org/v1/gonum/mat"
)

// Values above the threshold are taken as 1 to absorb solver noise around binary values
const threshold = 0.5

// Encode builds the |events| x |slots|*|rooms| assignment matrix of a schedule.
// References to entities absent from the problem fail with an UnknownEntityError
func Encode(problem *Problem, schedule Schedule) (*mat.Dense, error) {
	space, err := problem.Space()
	if err != nil {
		return nil, err
	}
	events, slots, rooms := space.Dims()
	matrix := mat.NewDense(events, slots*rooms, nil)

	for _, item := range schedule {
		event := slices.IndexFunc(problem.Events, func(event Event) bool { return event.Name == item.Event.Name })
		if event < 0 {
			return nil, UnknownEntityError{Kind: "event", Name: item.Event.Name}
		}

		slot := slices.IndexFunc(problem.Slots, func(slot Slot) bool { return sameSlot(slot, item.Slot) })
		if slot < 0 {
			return nil, UnknownEntityError{Kind: "slot", Name: item.Slot.String()}
		}

		room := 0
		if problem.HasRooms() {
			if item.Room == nil {
				return nil, fmt.Errorf("%w: event %q is scheduled without a room", ErrInvalidInput, item.Event.Name)
			}
			room = slices.IndexFunc(problem.Rooms, func(room Room) bool { return room.Name == item.Room.Name })
			if room < 0 {
				return nil, UnknownEntityError{Kind: "room", Name: item.Room.Name}
			}
		} else if item.Room != nil {
			return nil, UnknownEntityError{Kind: "room", Name: item.Room.Name}
		}

		matrix.Set(event, space.Column(slot, room), 1)
	}
	return matrix, nil
}

// Decode produces one item per nonzero cell, ordered by event and then by position
func Decode(problem *Problem, matrix *mat.Dense) (Schedule, error) {
	space, err := problem.Space()
	if err != nil {
		return nil, err
	}
	if err := checkMatrix(space, matrix); err != nil {
		return nil, err
	}

	events, slots, rooms := space.Dims()
	schedule := make(Schedule, 0, events)
	for event := range events {
		for slot := range slots {
			for room := range rooms {
				if matrix.At(event, space.Column(slot, room)) != 0 {
					schedule = append(schedule, ScheduledItem{
						Event: problem.Events[event],
						Slot:  problem.Slots[slot],
						Room:  problem.room(room),
					})
				}
			}
		}
	}
	return schedule, nil
}

// DecodeSolution turns solved variable values (indexed by the problem's space) into a schedule
func DecodeSolution(problem *Problem, values []float64) (Schedule, error) {
	space, err := problem.Space()
	if err != nil {
		return nil, err
	}
	if len(values) != space.Len() {
		return nil, fmt.Errorf("%w: %d values for %d variables", ErrInvalidInput, len(values), space.Len())
	}

	events, slots, rooms := space.Dims()
	matrix := mat.NewDense(events, slots*rooms, nil)
	for v, value := range values {
		if value > threshold {
			event, slot, room := space.Attributes(lp.Var(v))
			matrix.Set(event, space.Column(slot, room), 1)
		}
	}
	return Decode(problem, matrix)
}

// Valuer exposes the matrix cells through the space's variables
func matrixValuer(space *Space, matrix *mat.Dense) lp.Valuer {
	return lp.ValuerFunc(func(v lp.Var) float64 {
		event, slot, room := space.Attributes(v)
		return matrix.At(event, space.Column(slot, room))
	})
}

func checkMatrix(space *Space, matrix *mat.Dense) error {
	events, slots, rooms := space.Dims()
	if matrix == nil {
		return fmt.Errorf("%w: missing matrix", ErrInvalidInput)
	}
	if rows, columns := matrix.Dims(); rows != events || columns != slots*rooms {
		return fmt.Errorf("%w: matrix is %dx%d, expected %dx%d", ErrInvalidInput, rows, columns, events, slots*rooms)
	}
	return nil
}

// An empty matrix is nil, has no cells or has no assignment at all
func emptyMatrix(matrix *mat.Dense) bool {
	if matrix == nil || matrix.IsEmpty() {
		return true
	}
	rows, columns := matrix.Dims()
	for i := range rows {
		for j := range columns {
			if matrix.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}
