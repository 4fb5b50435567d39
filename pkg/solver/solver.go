package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/limaJavier/confsched/pkg/lp"
)

type Status int

const (
	Optimal Status = iota
	Infeasible
	Other
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "OPTIMAL"
	case Infeasible:
		return "INFEASIBLE"
	case Other:
		return "OTHER-FAILURE"
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

// Result holds the normalized outcome of a search. Values is indexed by lp.Var and is only set when Status is Optimal
type Result struct {
	Status    Status
	Values    []float64
	Objective int
}

func (result Result) Value(v lp.Var) float64 {
	return result.Values[v]
}

// Solver creates independent sessions; a session must not be shared between concurrent requests
type Solver interface {
	Name() string
	NewSession() Session
}

// Session is the boundary towards the external search engine
type Session interface {
	// Registers a binary variable and returns its identifier. Identifiers are consecutive starting at 0
	AddVar(name string) lp.Var

	// Adds a labeled linear (in)equality over previously registered variables
	AddConstraint(label string, relation lp.Relation) error

	// Sets the expression to minimize. Without objective any feasible assignment is optimal
	SetObjective(expr lp.Expr) error

	// Searches for an assignment. A non-positive budget means no time limit; exceeding it yields Other
	Solve(ctx context.Context, budget time.Duration) (Result, error)

	// Number of registered variables and constraints
	Size() (variables, constraints int)
}

// problem records what is registered in a session until it is compiled for a backend
type problem struct {
	names     []string
	labels    []string
	relations []lp.Relation
	objective *lp.Expr
}

func (p *problem) AddVar(name string) lp.Var {
	p.names = append(p.names, name)
	return lp.Var(len(p.names) - 1)
}

func (p *problem) AddConstraint(label string, relation lp.Relation) error {
	if err := p.checkTerms(relation.Expr); err != nil {
		return fmt.Errorf("constraint %q: %w", label, err)
	}
	p.labels = append(p.labels, label)
	p.relations = append(p.relations, relation)
	return nil
}

func (p *problem) SetObjective(expr lp.Expr) error {
	if err := p.checkTerms(expr); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	p.objective = &expr
	return nil
}

func (p *problem) Size() (variables, constraints int) {
	return len(p.names), len(p.relations)
}

func (p *problem) checkTerms(expr lp.Expr) error {
	for _, term := range expr.Terms {
		if term.Var < 0 || int(term.Var) >= len(p.names) {
			return fmt.Errorf("variable %d is not registered", term.Var)
		}
	}
	return nil
}

func withBudget(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget > 0 {
		return context.WithTimeout(ctx, budget)
	}
	return ctx, func() {}
}
