package model

import (
	"errors"
	"fmt"

	"github.com/limaJavier/confsched/pkg/solver"
)

var (
	ErrInfeasible      = errors.New("no valid schedule found")
	ErrDegenerateInput = errors.New("degenerate input")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrInvalidInput    = errors.New("invalid input")
)

// UnknownEntityError reports a reference to an event, slot or room that is absent from the problem
type UnknownEntityError struct {
	Kind string
	Name string
}

func (err UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %v %q", err.Kind, err.Name)
}

func (err UnknownEntityError) Unwrap() error {
	return ErrUnknownEntity
}

// InfeasibleError carries the status that prevented a schedule from being produced
type InfeasibleError struct {
	Status solver.Status
	Reason string
}

func (err InfeasibleError) Error() string {
	if err.Reason != "" {
		return fmt.Sprintf("%v: %v", ErrInfeasible, err.Reason)
	}
	return fmt.Sprintf("%v: solver status %v", ErrInfeasible, err.Status)
}

func (err InfeasibleError) Unwrap() error {
	return ErrInfeasible
}
