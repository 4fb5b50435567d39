package lp

import (
	"fmt"
	"math"
	"strings"
)

// Var identifies a binary decision variable by its position in a variable space
type Var int

type Term struct {
	Var  Var
	Coef int
}

// Expr is an integer linear expression over binary variables plus a constant offset
type Expr struct {
	Terms    []Term
	Constant int
}

type Op int

const (
	Eq Op = iota
	Le
	Ge
)

func (op Op) String() string {
	switch op {
	case Eq:
		return "=="
	case Le:
		return "<="
	case Ge:
		return ">="
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Relation is the comparison "Expr Op Bound"
type Relation struct {
	Expr  Expr
	Op    Op
	Bound int
}

// Valuer resolves a variable to a concrete value (e.g. an assignment matrix cell)
type Valuer interface {
	Value(v Var) float64
}

// ValuerFunc adapts a plain function to Valuer
type ValuerFunc func(v Var) float64

func (f ValuerFunc) Value(v Var) float64 {
	return f(v)
}

// Tolerance absorbs floating point noise when relations are evaluated numerically
const Tolerance = 1e-9

func Sum(vars ...Var) Expr {
	terms := make([]Term, 0, len(vars))
	for _, v := range vars {
		terms = append(terms, Term{Var: v, Coef: 1})
	}
	return Expr{Terms: terms}
}

// Plus returns the concatenation of both expressions; duplicated variables are kept as separate terms
func (e Expr) Plus(other Expr) Expr {
	terms := make([]Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	return Expr{Terms: terms, Constant: e.Constant + other.Constant}
}

func (e Expr) Scale(factor int) Expr {
	terms := make([]Term, len(e.Terms))
	for i, term := range e.Terms {
		terms[i] = Term{Var: term.Var, Coef: term.Coef * factor}
	}
	return Expr{Terms: terms, Constant: e.Constant * factor}
}

func (e Expr) Eq(bound int) Relation { return Relation{Expr: e, Op: Eq, Bound: bound} }
func (e Expr) Le(bound int) Relation { return Relation{Expr: e, Op: Le, Bound: bound} }
func (e Expr) Ge(bound int) Relation { return Relation{Expr: e, Op: Ge, Bound: bound} }

func (e Expr) Eval(values Valuer) float64 {
	total := float64(e.Constant)
	for _, term := range e.Terms {
		total += float64(term.Coef) * values.Value(term.Var)
	}
	return total
}

// Holds evaluates the relation against concrete values
func (r Relation) Holds(values Valuer) bool {
	lhs, bound := r.Expr.Eval(values), float64(r.Bound)
	switch r.Op {
	case Eq:
		return math.Abs(lhs-bound) <= Tolerance
	case Le:
		return lhs <= bound+Tolerance
	case Ge:
		return lhs >= bound-Tolerance
	}
	panic(fmt.Sprintf("unknown operator %v", r.Op))
}

// Format renders the expression using the given variable names (falls back to "v<index>" when name is nil)
func (e Expr) Format(name func(Var) string) string {
	if name == nil {
		name = func(v Var) string { return fmt.Sprintf("v%d", int(v)) }
	}

	var builder strings.Builder
	for i, term := range e.Terms {
		coef := writeSign(&builder, term.Coef, i == 0)
		if coef != 1 {
			fmt.Fprintf(&builder, "%d*", coef)
		}
		builder.WriteString(name(term.Var))
	}
	if len(e.Terms) == 0 {
		fmt.Fprintf(&builder, "%d", e.Constant)
	} else if e.Constant != 0 {
		fmt.Fprintf(&builder, "%d", writeSign(&builder, e.Constant, false))
	}
	return builder.String()
}

// Writes the operator preceding a value and returns its magnitude
func writeSign(builder *strings.Builder, value int, leading bool) int {
	switch {
	case leading && value < 0:
		builder.WriteString("-")
	case leading:
	case value < 0:
		builder.WriteString(" - ")
	default:
		builder.WriteString(" + ")
	}
	if value < 0 {
		return -value
	}
	return value
}

func (e Expr) String() string {
	return e.Format(nil)
}

func (r Relation) Format(name func(Var) string) string {
	return fmt.Sprintf("%s %v %d", r.Expr.Format(name), r.Op, r.Bound)
}

func (r Relation) String() string {
	return r.Format(nil)
}
