package model

type predicateEvaluator interface {
	// Checks whether the event is permitted in the slot
	Available(event, slot int) bool

	// Checks whether the room may host the event's type
	Suitable(event, room int) bool

	// Checks whether the event's demand does not exceed the room's capacity (i.e. the event fits in the room)
	Fits(event, room int) bool

	// Checks whether both events are tagged and share no tag
	Dissimilar(event1, event2 int) bool

	// Returns the events listed in the event's unavailability
	Excluded(event int) []int
}
