package solver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-air/gini/z"
	"github.com/samber/lo"
)

// SAT is a CNF instance; literals follow the DIMACS convention
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

// SATSolution is the list of literals assigned by a SAT solver
type SATSolution []int64

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// cnfCollector receives z.LitNull-terminated clauses (it satisfies gini's inter.Adder) and stores them in DIMACS form
type cnfCollector struct {
	clauses [][]int64
	current []int64
}

func (collector *cnfCollector) Add(m z.Lit) {
	if m == z.LitNull {
		collector.clauses = append(collector.clauses, collector.current)
		collector.current = nil
		return
	}
	collector.current = append(collector.current, int64(m.Dimacs()))
}

func toSAT(enc *encoding) SAT {
	collector := &cnfCollector{}
	enc.circuit.ToCnf(collector)
	for _, root := range enc.roots {
		collector.Add(root)
		collector.Add(z.LitNull)
	}
	return SAT{
		Variables: uint64(enc.maxVar()),
		Clauses:   collector.clauses,
	}
}

// Extracts the literals from the "v" lines of a solver's standard output
func parseSolution(solverOutput string) (SATSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return len(line) > 0 && line[0] == 'v'
	})

	solution := make(SATSolution, 0)
	for _, line := range lines {
		for _, field := range strings.Fields(line[1:]) {
			value, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid literal in solver output: %w", err)
			}
			if value != 0 {
				solution = append(solution, value)
			}
		}
	}
	return solution, nil
}

// Returns a predicate telling whether a literal is true in the solution
func (solution SATSolution) model() func(z.Lit) bool {
	positives := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			positives[literal] = true
		}
	}
	return func(m z.Lit) bool {
		literal := int64(m.Dimacs())
		if literal < 0 {
			return !positives[-literal]
		}
		return positives[literal]
	}
}
