package model

import (
	"github.com/limaJavier/confsched/pkg/lp"
)

// Objective maps the variable space to a linear expression that the solver minimizes
type Objective func(problem *Problem, space *Space) (lp.Expr, error)

// NumberOfChanges counts the assignments that differ from an existing schedule
func NumberOfChanges(existing Schedule) Objective {
	return func(problem *Problem, space *Space) (lp.Expr, error) {
		matrix, err := Encode(problem, existing)
		if err != nil {
			return lp.Expr{}, err
		}

		// x when the cell was 0 and (1 - x) when it was 1
		expr := lp.Expr{}
		for v := range space.Len() {
			event, slot, room := space.Attributes(lp.Var(v))
			if matrix.At(event, space.Column(slot, room)) != 0 {
				expr.Terms = append(expr.Terms, lp.Term{Var: lp.Var(v), Coef: -1})
				expr.Constant++
			} else {
				expr.Terms = append(expr.Terms, lp.Term{Var: lp.Var(v), Coef: 1})
			}
		}
		return expr, nil
	}
}

// CapacityDemandDifference sums the unused seats of every assignment. It is constant without rooms
func CapacityDemandDifference() Objective {
	return func(problem *Problem, space *Space) (lp.Expr, error) {
		expr := lp.Expr{}
		if !problem.HasRooms() {
			return expr, nil
		}

		for v := range space.Len() {
			event, _, room := space.Attributes(lp.Var(v))
			if difference := problem.Rooms[room].Capacity - problem.Events[event].Demand; difference != 0 {
				expr.Terms = append(expr.Terms, lp.Term{Var: lp.Var(v), Coef: difference})
			}
		}
		return expr, nil
	}
}
