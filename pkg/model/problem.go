package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Problem gathers the read-only inputs of one scheduling or validation request.
// Without rooms a single implicit room is used, so every formulation is three-dimensional
type Problem struct {
	Events       []Event
	Slots        []Slot
	Rooms        []Room
	Availability *mat.Dense // |events| x |slots|, 1 = permitted and 0 = forbidden. Nil means DefaultAvailability
}

// Validate checks the structural soundness of the problem. Empty collections are left to NewSpace
func (problem *Problem) Validate() error {
	if name, ok := duplicate(lo.Map(problem.Events, func(event Event, _ int) string { return event.Name })); ok {
		return fmt.Errorf("%w: duplicate event %q", ErrInvalidInput, name)
	}
	if name, ok := duplicate(lo.Map(problem.Rooms, func(room Room, _ int) string { return room.Name })); ok {
		return fmt.Errorf("%w: duplicate room %q", ErrInvalidInput, name)
	}
	if name, ok := duplicate(lo.Map(problem.Slots, func(slot Slot, _ int) string { return slot.String() })); ok {
		return fmt.Errorf("%w: duplicate slot %v", ErrInvalidInput, name)
	}

	for _, event := range problem.Events {
		for _, other := range event.Unavailability {
			if !lo.ContainsBy(problem.Events, func(candidate Event) bool { return candidate.Name == other }) {
				return fmt.Errorf("unavailability of event %q: %w", event.Name, UnknownEntityError{Kind: "event", Name: other})
			}
		}
	}

	if problem.Availability != nil {
		if err := checkAvailability(problem.Availability, len(problem.Events), len(problem.Slots)); err != nil {
			return err
		}
	}
	return nil
}

// Space builds the variable space of the problem
func (problem *Problem) Space() (*Space, error) {
	return NewSpace(len(problem.Events), len(problem.Slots), max(1, len(problem.Rooms)))
}

func (problem *Problem) HasRooms() bool {
	return len(problem.Rooms) > 0
}

// Returns the room addressed by a room index of the space (nil for the implicit room)
func (problem *Problem) room(index int) *Room {
	if !problem.HasRooms() {
		return nil
	}
	room := problem.Rooms[index]
	return &room
}

func (problem *Problem) availability() *mat.Dense {
	if problem.Availability != nil {
		return problem.Availability
	}
	return DefaultAvailability(problem.Events, problem.Slots)
}

// Sessions groups slot indices by start time, in order of first appearance
func Sessions(slots []Slot) [][]int {
	sessions := make([][]int, 0)
	for i, slot := range slots {
		index := slices.IndexFunc(sessions, func(session []int) bool {
			return slots[session[0]].Starts.Equal(slot.Starts)
		})
		if index < 0 {
			sessions = append(sessions, []int{i})
		} else {
			sessions[index] = append(sessions[index], i)
		}
	}
	return sessions
}

// ConcurrentSlots lists every ordered pair of overlapping slots, including each slot paired with itself
func ConcurrentSlots(slots []Slot) [][2]int {
	pairs := make([][2]int, 0, len(slots))
	for i := range slots {
		for j := range slots {
			if slots[i].Overlaps(slots[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

func duplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name, true
		}
		seen[name] = true
	}
	return "", false
}
