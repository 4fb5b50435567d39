package model

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

type predicateEvaluatorStandard struct {
	problem      *Problem
	availability *mat.Dense
	excluded     [][]int // Unavailability per event as event indices
}

func newPredicateEvaluator(problem *Problem) predicateEvaluator {
	indices := make(map[string]int, len(problem.Events))
	for i, event := range problem.Events {
		indices[event.Name] = i
	}

	excluded := make([][]int, len(problem.Events))
	for i, event := range problem.Events {
		for _, name := range lo.Uniq(event.Unavailability) {
			// Unknown names are rejected by Problem.Validate and self references are meaningless
			if index, ok := indices[name]; ok && index != i {
				excluded[i] = append(excluded[i], index)
			}
		}
	}

	return &predicateEvaluatorStandard{
		problem:      problem,
		availability: problem.availability(),
		excluded:     excluded,
	}
}

func (evaluator *predicateEvaluatorStandard) Available(event, slot int) bool {
	return evaluator.availability.At(event, slot) != 0
}

func (evaluator *predicateEvaluatorStandard) Suitable(event, room int) bool {
	if !evaluator.problem.HasRooms() {
		return true
	}
	return slices.Contains(evaluator.problem.Rooms[room].Suitability, evaluator.problem.Events[event].EventType)
}

func (evaluator *predicateEvaluatorStandard) Fits(event, room int) bool {
	if !evaluator.problem.HasRooms() {
		return true
	}
	return evaluator.problem.Events[event].Demand <= evaluator.problem.Rooms[room].Capacity
}

func (evaluator *predicateEvaluatorStandard) Dissimilar(event1, event2 int) bool {
	tags1, tags2 := evaluator.problem.Events[event1].Tags, evaluator.problem.Events[event2].Tags
	if len(tags1) == 0 || len(tags2) == 0 {
		return false
	}
	return !lo.SomeBy(tags1, func(tag string) bool {
		return slices.Contains(tags2, tag)
	})
}

func (evaluator *predicateEvaluatorStandard) Excluded(event int) []int {
	return evaluator.excluded[event]
}
