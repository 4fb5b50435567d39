package solver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
	unknown       = 0
)

// Interval between checks of the context while a background solve is running
const pollInterval = 5 * time.Millisecond

type giniSolver struct{}

// NewGiniSolver returns an in-process solver backed by gini. Linear relations are coded as cardinality
// networks and the objective is minimized by repeatedly tightening a cardinality bound
func NewGiniSolver() Solver {
	return &giniSolver{}
}

func (solver *giniSolver) Name() string {
	return "gini"
}

func (solver *giniSolver) NewSession() Session {
	return &giniSession{}
}

type giniSession struct {
	problem
}

func (session *giniSession) Solve(ctx context.Context, budget time.Duration) (Result, error) {
	ctx, cancel := withBudget(ctx, budget)
	defer cancel()
	if ctx.Err() != nil {
		return Result{Status: Other}, nil
	}

	//** Compile
	enc := encode(&session.problem)
	g := gini.NewV(enc.circuit.Len())
	enc.circuit.ToCnf(g)
	for _, root := range enc.roots {
		g.Add(root)
		g.Add(z.LitNull)
	}

	value := func(m z.Lit) bool {
		// Variables not mentioned by any clause are unconstrained, therefore false is a valid value
		return m.Var() <= g.MaxVar() && g.Value(m)
	}

	//** Find a feasible assignment
	switch run(ctx, g) {
	case unsatisfiable:
		return Result{Status: Infeasible}, nil
	case unknown:
		return Result{Status: Other}, nil
	}

	values := enc.values(value)
	if enc.objective == nil {
		return Result{Status: Optimal, Values: values}, nil
	}

	//** Minimize objective
	cost := enc.objective.count(value)
	for cost > 0 {
		g.Assume(enc.objective.card.Leq(cost - 1))

		outcome := run(ctx, g)
		if outcome == unsatisfiable {
			break
		} else if outcome == unknown {
			return Result{Status: Other}, nil
		}

		values = enc.values(value)
		cost = enc.objective.count(value)
	}

	return Result{Status: Optimal, Values: values, Objective: enc.objective.value(cost)}, nil
}

// Runs gini until it answers or the context is done, in which case the search is stopped
func run(ctx context.Context, g *gini.Gini) int {
	if ctx.Done() == nil {
		return g.Solve()
	}

	solve := g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if result, done := solve.Test(); done {
			return result
		}
		select {
		case <-ctx.Done():
			return solve.Stop()
		case <-ticker.C:
		}
	}
}
