package main

import (
	"fmt"

	"github.com/limaJavier/confsched/pkg/solver"
)

var solvers = map[string]func(path string) solver.Solver{
	"gini":          func(string) solver.Solver { return solver.NewGiniSolver() },
	"kissat":        solver.NewKissatSolver,
	"cadical":       solver.NewCadicalSolver,
	"cryptominisat": solver.NewCryptominisatSolver,
	"minisat":       solver.NewMinisatSolver,
}

func newSolver(backend, path string) (solver.Solver, error) {
	constructor, ok := solvers[backend]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver", backend)
	}
	return constructor(path), nil
}
