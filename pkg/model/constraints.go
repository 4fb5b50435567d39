package model

import (
	"fmt"
	"iter"

	"github.com/limaJavier/confsched/pkg/lp"
)

// Kind is the closed set of rules a constraint instance may come from. Each variant carries the indices it involves
type Kind interface {
	Rule() string
	kind()
}

// Every event is scheduled exactly once
type ScheduleEvent struct{ Event int }

// A slot (in a room) hosts at most one event
type SlotCapacity struct{ Slot, Room int }

// An event is never placed in a room that cannot host its type
type RoomSuitability struct{ Event, Room int }

// An event is never placed in a room smaller than its demand
type RoomCapacity struct{ Event, Room int }

// Tagged events sharing no tag are not placed in two different slots of the same session
type SessionTags struct {
	Session       int
	Event1, Slot1 int
	Event2, Slot2 int
}

// An event is never placed in a slot it is not available for
type EventAvailability struct{ Event, Slot int }

// Mutually exclusive events are never placed in concurrent slots
type EventClash struct {
	Event1, Slot1 int
	Event2, Slot2 int
}

// Custom is the kind of caller-supplied constraints
type Custom struct{ Name string }

func (ScheduleEvent) Rule() string     { return "Event either not scheduled or scheduled multiple times" }
func (SlotCapacity) Rule() string      { return "Slot with multiple events scheduled" }
func (RoomSuitability) Rule() string   { return "Event scheduled in unsuitable room" }
func (RoomCapacity) Rule() string      { return "Event demand exceeds room capacity" }
func (SessionTags) Rule() string       { return "Dissimilar events scheduled in same session" }
func (EventAvailability) Rule() string { return "Event scheduled when not available" }
func (EventClash) Rule() string        { return "Event clashes with another event" }
func (kind Custom) Rule() string       { return kind.Name }

func (ScheduleEvent) kind()     {}
func (SlotCapacity) kind()      {}
func (RoomSuitability) kind()   {}
func (RoomCapacity) kind()      {}
func (SessionTags) kind()       {}
func (EventAvailability) kind() {}
func (EventClash) kind()        {}
func (Custom) kind()            {}

// Constraint is a labeled linear relation over a variable space. The same value is registered with a
// solver before search or evaluated against a concrete assignment
type Constraint struct {
	Label    string
	Kind     Kind
	Relation lp.Relation
}

// ConstraintSource produces additional constraints over a problem's variable space
type ConstraintSource func(problem *Problem, space *Space) iter.Seq[Constraint]

func NewConstraint(label string, relation lp.Relation) Constraint {
	return Constraint{Label: label, Kind: Custom{Name: label}, Relation: relation}
}

func (constraint Constraint) Holds(values lp.Valuer) bool {
	return constraint.Relation.Holds(values)
}

type constraintState struct {
	problem   *Problem
	space     *Space
	evaluator predicateEvaluator

	events,
	slots,
	rooms int
}

// Constraints lazily produces every constraint of the problem, followed by those of the extra sources.
// The sequence is restartable; each iteration recomputes it from the (read-only) problem.
// The space must be the one returned by problem.Space()
func Constraints(problem *Problem, space *Space, extra ...ConstraintSource) iter.Seq[Constraint] {
	return func(yield func(Constraint) bool) {
		events, slots, rooms := space.Dims()
		state := constraintState{
			problem:   problem,
			space:     space,
			evaluator: newPredicateEvaluator(problem),
			events:    events,
			slots:     slots,
			rooms:     rooms,
		}

		// Constraints functions, in generation order
		rules := []func(state constraintState) iter.Seq[Kind]{
			scheduleEventConstraints,
			slotCapacityConstraints,
			roomSuitabilityConstraints,
			roomCapacityConstraints,
			sessionTagsConstraints,
			eventAvailabilityConstraints,
			eventClashConstraints,
		}

		for _, rule := range rules {
			for kind := range rule(state) {
				if !yield(state.build(kind)) {
					return
				}
			}
		}

		for _, source := range extra {
			for constraint := range source(problem, space) {
				if !yield(constraint) {
					return
				}
			}
		}
	}
}

func scheduleEventConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for event := range state.events {
			if !yield(ScheduleEvent{Event: event}) {
				return
			}
		}
	}
}

func slotCapacityConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for slot := range state.slots {
			for room := range state.rooms {
				if !yield(SlotCapacity{Slot: slot, Room: room}) {
					return
				}
			}
		}
	}
}

// Forbids the whole (event, room) pair rather than every (event, slot, room) combination
func roomSuitabilityConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		if !state.problem.HasRooms() {
			return
		}
		for event := range state.events {
			for room := range state.rooms {
				if !state.evaluator.Suitable(event, room) && !yield(RoomSuitability{Event: event, Room: room}) {
					return
				}
			}
		}
	}
}

func roomCapacityConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		if !state.problem.HasRooms() {
			return
		}
		for event := range state.events {
			for room := range state.rooms {
				if !state.evaluator.Fits(event, room) && !yield(RoomCapacity{Event: event, Room: room}) {
					return
				}
			}
		}
	}
}

// Symmetric pairs are produced from both ends; the duplicate relation is harmless
func sessionTagsConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for session, slots := range Sessions(state.problem.Slots) {
			for _, slot1 := range slots {
				for event1 := range state.events {
					for event2 := range state.events {
						if event1 == event2 || !state.evaluator.Dissimilar(event1, event2) {
							continue
						}
						for _, slot2 := range slots {
							if slot1 == slot2 {
								continue
							}
							kind := SessionTags{
								Session: session,
								Event1:  event1, Slot1: slot1,
								Event2: event2, Slot2: slot2,
							}
							if !yield(kind) {
								return
							}
						}
					}
				}
			}
		}
	}
}

// Only forbidden entries are produced; permitted ones would be trivially satisfied
func eventAvailabilityConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for event := range state.events {
			for slot := range state.slots {
				if !state.evaluator.Available(event, slot) && !yield(EventAvailability{Event: event, Slot: slot}) {
					return
				}
			}
		}
	}
}

func eventClashConstraints(state constraintState) iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for _, pair := range ConcurrentSlots(state.problem.Slots) {
			for event1 := range state.events {
				for _, event2 := range state.evaluator.Excluded(event1) {
					if !yield(EventClash{Event1: event1, Slot1: pair[0], Event2: event2, Slot2: pair[1]}) {
						return
					}
				}
			}
		}
	}
}

func (state constraintState) build(kind Kind) Constraint {
	return Constraint{
		Label:    state.label(kind),
		Kind:     kind,
		Relation: state.relation(kind),
	}
}

func (state constraintState) relation(kind Kind) lp.Relation {
	space := state.space

	switch kind := kind.(type) {
	case ScheduleEvent:
		expr := lp.Expr{}
		for slot := range state.slots {
			expr = expr.Plus(space.slotSum(kind.Event, slot))
		}
		return expr.Eq(1)
	case SlotCapacity:
		vars := make([]lp.Var, state.events)
		for event := range state.events {
			vars[event] = space.Var(event, kind.Slot, kind.Room)
		}
		return lp.Sum(vars...).Le(1)
	case RoomSuitability:
		return state.roomUsage(kind.Event, kind.Room).Eq(0)
	case RoomCapacity:
		return state.roomUsage(kind.Event, kind.Room).Eq(0)
	case SessionTags:
		return space.slotSum(kind.Event1, kind.Slot1).Plus(space.slotSum(kind.Event2, kind.Slot2)).Le(1)
	case EventAvailability:
		return space.slotSum(kind.Event, kind.Slot).Le(0)
	case EventClash:
		return space.slotSum(kind.Event1, kind.Slot1).Plus(space.slotSum(kind.Event2, kind.Slot2)).Le(1)
	}
	panic(fmt.Sprintf("no built-in relation for constraint kind %T", kind))
}

// Labels carry the rule and the indices involved; room indices only appear when rooms are modeled
func (state constraintState) label(kind Kind) string {
	rooms := state.problem.HasRooms()

	var details string
	switch kind := kind.(type) {
	case ScheduleEvent:
		details = fmt.Sprintf("event: %d", kind.Event)
	case SlotCapacity:
		details = fmt.Sprintf("slot: %d", kind.Slot)
		if rooms {
			details += fmt.Sprintf(", room: %d", kind.Room)
		}
	case RoomSuitability:
		details = fmt.Sprintf("event: %d, room: %d", kind.Event, kind.Room)
	case RoomCapacity:
		details = fmt.Sprintf("event: %d, room: %d", kind.Event, kind.Room)
	case SessionTags:
		details = fmt.Sprintf("session: %d, event: %d, slot: %d and event: %d, slot: %d",
			kind.Session, kind.Event1, kind.Slot1, kind.Event2, kind.Slot2)
	case EventAvailability:
		details = fmt.Sprintf("event: %d, slot: %d", kind.Event, kind.Slot)
	case EventClash:
		details = fmt.Sprintf("event: %d, slot: %d and event: %d, slot: %d", kind.Event1, kind.Slot1, kind.Event2, kind.Slot2)
	default:
		return kind.Rule()
	}
	return fmt.Sprintf("%v - %v", kind.Rule(), details)
}

func (state constraintState) roomUsage(event, room int) lp.Expr {
	vars := make([]lp.Var, state.slots)
	for slot := range state.slots {
		vars[slot] = state.space.Var(event, slot, room)
	}
	return lp.Sum(vars...)
}
