package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultAvailability permits an event in every slot long enough to hold it
func DefaultAvailability(events []Event, slots []Slot) *mat.Dense {
	if len(events) == 0 || len(slots) == 0 {
		return nil
	}

	availability := mat.NewDense(len(events), len(slots), nil)
	for e, event := range events {
		for s, slot := range slots {
			if event.Duration <= slot.Duration || event.Duration == 0 {
				availability.Set(e, s, 1)
			}
		}
	}
	return availability
}

func checkAvailability(availability *mat.Dense, events, slots int) error {
	rows, columns := availability.Dims()
	if rows != events || columns != slots {
		return fmt.Errorf("%w: availability is %dx%d, expected %dx%d", ErrInvalidInput, rows, columns, events, slots)
	}

	for e := range rows {
		for s := range columns {
			if value := availability.At(e, s); value != 0 && value != 1 {
				return fmt.Errorf("%w: availability[%d,%d] = %v is not binary", ErrInvalidInput, e, s, value)
			}
		}
	}
	return nil
}
