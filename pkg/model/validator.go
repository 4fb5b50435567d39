package model

import (
	"gonum.org/v1/gonum/mat"
)

// ValidSchedule reports whether the schedule satisfies every constraint. An empty schedule is never valid
func ValidSchedule(problem *Problem, schedule Schedule, extra ...ConstraintSource) (bool, error) {
	if len(schedule) == 0 {
		return false, nil
	}
	matrix, err := Encode(problem, schedule)
	if err != nil {
		return false, err
	}
	return ValidMatrix(problem, matrix, extra...)
}

// ScheduleViolations returns the labels of every violated constraint, in generation order
func ScheduleViolations(problem *Problem, schedule Schedule, extra ...ConstraintSource) ([]string, error) {
	matrix, err := Encode(problem, schedule)
	if err != nil {
		return nil, err
	}
	return MatrixViolations(problem, matrix, extra...)
}

// ValidMatrix reports whether the assignment matrix satisfies every constraint. An empty matrix is never valid
func ValidMatrix(problem *Problem, matrix *mat.Dense, extra ...ConstraintSource) (bool, error) {
	if emptyMatrix(matrix) {
		return false, nil
	}
	violations, err := MatrixViolations(problem, matrix, extra...)
	if err != nil {
		return false, err
	}
	return len(violations) == 0, nil
}

func MatrixViolations(problem *Problem, matrix *mat.Dense, extra ...ConstraintSource) ([]string, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	space, err := problem.Space()
	if err != nil {
		return nil, err
	}
	if err := checkMatrix(space, matrix); err != nil {
		return nil, err
	}

	values := matrixValuer(space, matrix)
	violations := make([]string, 0)
	for constraint := range Constraints(problem, space, extra...) {
		if !constraint.Holds(values) {
			violations = append(violations, constraint.Label)
		}
	}
	return violations, nil
}
