package model

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

const testDirectory = "testdata/"

var morning = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// Hour-long slot starting the given number of hours after the first one
func hourSlot(venue string, hour int) Slot {
	return Slot{Venue: venue, Starts: morning.Add(time.Duration(hour) * time.Hour), Duration: time.Hour}
}

func talk(name string, tags ...string) Event {
	return Event{Name: name, EventType: "talk", Tags: tags}
}

func item(event Event, slot Slot) ScheduledItem {
	return ScheduledItem{Event: event, Slot: slot}
}

func itemIn(event Event, slot Slot, room Room) ScheduledItem {
	return ScheduledItem{Event: event, Slot: slot, Room: &room}
}

func ones(rows, columns int) *mat.Dense {
	matrix := mat.NewDense(rows, columns, nil)
	for i := range rows {
		for j := range columns {
			matrix.Set(i, j, 1)
		}
	}
	return matrix
}
