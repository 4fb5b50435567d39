package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type position struct {
	slot int
	room int
}

// precheck matches events to the positions each of them may occupy on its own (availability, suitability
// and capacity). A matching smaller than the number of events proves the problem infeasible without
// a solver; a complete one proves nothing about the remaining rules
func precheck(problem *Problem, space *Space) (unmatched []string, err error) {
	evaluator := newPredicateEvaluator(problem)
	events, slots, rooms := space.Dims()

	eventsAny := make([]any, events)
	for event := range events {
		eventsAny[event] = event
	}
	positionsAny := make([]any, 0, slots*rooms)
	for slot := range slots {
		for room := range rooms {
			positionsAny = append(positionsAny, position{slot: slot, room: room})
		}
	}

	// Build neighbors predicate based on admissible positions
	neighbors := func(eventAny any, positionAny any) (bool, error) {
		event, position := eventAny.(int), positionAny.(position)
		return evaluator.Available(event, position.slot) &&
			evaluator.Suitable(event, position.room) &&
			evaluator.Fits(event, position.room), nil
	}

	graph, err := bipartitegraph.NewBipartiteGraph(eventsAny, positionsAny, neighbors)
	if err != nil {
		return nil, fmt.Errorf("cannot build events graph: %w", err)
	}

	matching := graph.LargestMatching()
	if len(matching) == events {
		return nil, nil
	}

	matched := make(map[int]bool, len(matching))
	for _, edge := range matching {
		matched[min(edge.Node1, edge.Node2)] = true // Left nodes are numbered first
	}
	return lo.FilterMap(problem.Events, func(event Event, i int) (string, bool) {
		return event.Name, !matched[i]
	}), nil
}
