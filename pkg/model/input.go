package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

type Event struct {
	Name           string
	EventType      string
	Tags           []string
	Unavailability []string      // Names of the events that must not run concurrently with this one
	Duration       time.Duration // Zero fits any slot
	Demand         int           // Expected audience, zero means no capacity requirement
}

type Slot struct {
	Venue    string
	Starts   time.Time
	Duration time.Duration
}

type Room struct {
	Name        string
	Capacity    int
	Suitability []string // Event types the room may host
}

// ScheduledItem places an event in a slot. Room is nil when rooms are not modeled
type ScheduledItem struct {
	Event Event
	Slot  Slot
	Room  *Room
}

type Schedule []ScheduledItem

type RawInput struct {
	Events       []Event
	Slots        []Slot
	Rooms        []Room
	Availability [][]float64
}

type RawItem struct {
	Event  string    `json:"event"`
	Venue  string    `json:"venue"`
	Starts time.Time `json:"starts"`
	Room   string    `json:"room,omitempty"`
}

func (slot Slot) Ends() time.Time {
	return slot.Starts.Add(slot.Duration)
}

// Overlaps reports whether both time intervals intersect; a slot always overlaps itself
func (slot Slot) Overlaps(other Slot) bool {
	return slot.Starts.Equal(other.Starts) ||
		(slot.Starts.Before(other.Ends()) && other.Starts.Before(slot.Ends()))
}

func (slot Slot) String() string {
	return fmt.Sprintf("%v@%v", slot.Venue, slot.Starts.Format(time.RFC3339))
}

func ProblemFromJson(file string) (*Problem, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, err
	}

	var rawInput RawInput
	if err := decode(inputJson, &rawInput); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawInput) (*Problem, error) {
	problem := &Problem{
		Events: rawInput.Events,
		Slots:  rawInput.Slots,
		Rooms:  rawInput.Rooms,
	}

	if len(rawInput.Availability) > 0 {
		rows, columns := len(rawInput.Availability), len(rawInput.Availability[0])
		if lo.SomeBy(rawInput.Availability, func(row []float64) bool { return len(row) != columns }) || columns == 0 {
			return nil, fmt.Errorf("%w: availability rows must be non-empty and have the same length", ErrInvalidInput)
		}
		problem.Availability = mat.NewDense(rows, columns, lo.Flatten(rawInput.Availability))
	}

	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return problem, nil
}

// ScheduleFromJson reads a list of {event, venue, starts, room} items and resolves them against the problem
func ScheduleFromJson(file string, problem *Problem) (Schedule, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var itemsJson []any
	if err := json.Unmarshal(bytes, &itemsJson); err != nil {
		return nil, err
	}

	var rawItems []RawItem
	if err := decode(itemsJson, &rawItems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ResolveSchedule(rawItems, problem)
}

func ResolveSchedule(rawItems []RawItem, problem *Problem) (Schedule, error) {
	schedule := make(Schedule, 0, len(rawItems))
	for _, rawItem := range rawItems {
		event, ok := lo.Find(problem.Events, func(event Event) bool { return event.Name == rawItem.Event })
		if !ok {
			return nil, UnknownEntityError{Kind: "event", Name: rawItem.Event}
		}

		key := Slot{Venue: rawItem.Venue, Starts: rawItem.Starts}
		slot, ok := lo.Find(problem.Slots, func(slot Slot) bool { return sameSlot(slot, key) })
		if !ok {
			return nil, UnknownEntityError{Kind: "slot", Name: key.String()}
		}

		item := ScheduledItem{Event: event, Slot: slot}
		if rawItem.Room != "" {
			room, ok := lo.Find(problem.Rooms, func(room Room) bool { return room.Name == rawItem.Room })
			if !ok {
				return nil, UnknownEntityError{Kind: "room", Name: rawItem.Room}
			}
			item.Room = &room
		}
		schedule = append(schedule, item)
	}
	return schedule, nil
}

func (schedule Schedule) Raw() []RawItem {
	return lo.Map(schedule, func(item ScheduledItem, _ int) RawItem {
		rawItem := RawItem{Event: item.Event.Name, Venue: item.Slot.Venue, Starts: item.Slot.Starts}
		if item.Room != nil {
			rawItem.Room = item.Room.Name
		}
		return rawItem
	})
}

func (schedule Schedule) ToJson() ([]byte, error) {
	return json.MarshalIndent(schedule.Raw(), "", "  ")
}

func decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		Result: output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Slots are identified by venue and start time
func sameSlot(slot1, slot2 Slot) bool {
	return slot1.Venue == slot2.Venue && slot1.Starts.Equal(slot2.Starts)
}
