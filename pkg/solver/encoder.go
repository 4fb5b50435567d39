package solver

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/confsched/pkg/lp"
	"github.com/samber/lo"
)

// encoding is a pseudo-boolean translation of a problem into a combinational circuit.
// Every linear relation becomes a cardinality constraint over (possibly repeated) literals, coded with sorting networks
type encoding struct {
	circuit   *logic.C
	vars      []z.Lit
	roots     []z.Lit // Literals that must hold
	objective *objectiveEncoding
}

type objectiveEncoding struct {
	card   *logic.CardSort
	lits   []z.Lit // Counted literals (each repeated by its scaled weight)
	scale  int
	offset int
}

func encode(p *problem) *encoding {
	enc := &encoding{
		circuit: logic.NewCCap(2 * (len(p.names) + 1)),
		vars:    make([]z.Lit, len(p.names)),
		roots:   make([]z.Lit, 0, len(p.relations)),
	}

	for i := range p.names {
		enc.vars[i] = enc.circuit.Lit()
	}

	for _, relation := range p.relations {
		bound := relation.Bound - relation.Expr.Constant
		terms := mergeTerms(relation.Expr.Terms)
		negated := lo.Map(terms, func(term lp.Term, _ int) lp.Term { return lp.Term{Var: term.Var, Coef: -term.Coef} })

		switch relation.Op {
		case lp.Le:
			enc.roots = append(enc.roots, enc.leq(terms, bound))
		case lp.Ge:
			enc.roots = append(enc.roots, enc.leq(negated, -bound))
		case lp.Eq:
			enc.roots = append(enc.roots, enc.leq(terms, bound), enc.leq(negated, -bound))
		}
	}

	if p.objective != nil {
		enc.objective = enc.minimize(*p.objective)
	}

	return enc
}

// Returns a literal that is true if and only if sum(coef * x) <= bound
func (enc *encoding) leq(terms []lp.Term, bound int) z.Lit {
	lits, weights := make([]z.Lit, 0, len(terms)), make([]int, 0, len(terms))
	for _, term := range terms {
		if term.Coef > 0 {
			lits = append(lits, enc.vars[term.Var])
			weights = append(weights, term.Coef)
		} else {
			// c*x = c + |c|*(not x)
			lits = append(lits, enc.vars[term.Var].Not())
			weights = append(weights, -term.Coef)
			bound -= term.Coef
		}
	}

	if bound < 0 {
		return enc.circuit.F
	} else if len(lits) == 0 || bound >= lo.Sum(weights) {
		return enc.circuit.T
	}

	divisor := gcd(weights)
	return enc.circuit.CardSort(replicate(lits, weights, divisor)).Leq(bound / divisor)
}

func (enc *encoding) minimize(expr lp.Expr) *objectiveEncoding {
	objective := &objectiveEncoding{offset: expr.Constant}

	lits, weights := make([]z.Lit, 0, len(expr.Terms)), make([]int, 0, len(expr.Terms))
	for _, term := range mergeTerms(expr.Terms) {
		if term.Coef > 0 {
			lits = append(lits, enc.vars[term.Var])
			weights = append(weights, term.Coef)
		} else {
			lits = append(lits, enc.vars[term.Var].Not())
			weights = append(weights, -term.Coef)
			objective.offset += term.Coef
		}
	}

	objective.scale = gcd(weights)
	objective.lits = replicate(lits, weights, objective.scale)
	objective.card = enc.circuit.CardSort(objective.lits)
	return objective
}

// Number of counted literals that are true under the given model
func (objective *objectiveEncoding) count(value func(z.Lit) bool) int {
	return lo.CountBy(objective.lits, value)
}

func (objective *objectiveEncoding) value(count int) int {
	return count*objective.scale + objective.offset
}

// Variables of the circuit are numbered 1..Len()-1
func (enc *encoding) maxVar() z.Var {
	return z.Var(enc.circuit.Len() - 1)
}

func (enc *encoding) values(value func(z.Lit) bool) []float64 {
	return lo.Map(enc.vars, func(m z.Lit, _ int) float64 {
		if value(m) {
			return 1
		}
		return 0
	})
}

// Merges repeated variables and drops null coefficients, preserving first appearance order
func mergeTerms(terms []lp.Term) []lp.Term {
	coefs := make(map[lp.Var]int, len(terms))
	order := make([]lp.Var, 0, len(terms))
	for _, term := range terms {
		if _, ok := coefs[term.Var]; !ok {
			order = append(order, term.Var)
		}
		coefs[term.Var] += term.Coef
	}

	merged := make([]lp.Term, 0, len(order))
	for _, v := range order {
		if coefs[v] != 0 {
			merged = append(merged, lp.Term{Var: v, Coef: coefs[v]})
		}
	}
	return merged
}

func replicate(lits []z.Lit, weights []int, divisor int) []z.Lit {
	replicated := make([]z.Lit, 0, len(lits))
	for i, m := range lits {
		for range weights[i] / divisor {
			replicated = append(replicated, m)
		}
	}
	return replicated
}

func gcd(values []int) int {
	result := 0
	for _, value := range values {
		a, b := result, value
		for b != 0 {
			a, b = b, a%b
		}
		result = a
	}
	if result == 0 {
		return 1
	}
	return result
}
