package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/confsched/pkg/lp"
	"github.com/limaJavier/confsched/pkg/solver"
	"github.com/rs/zerolog"
)

type Scheduler interface {
	// Build formulates the problem, solves it and decodes the schedule. Any non-optimal status fails with an InfeasibleError
	Build(ctx context.Context, problem *Problem) (Outcome, error)

	// Verify checks a schedule against the same constraints without a solver
	Verify(problem *Problem, schedule Schedule) (Report, error)
}

// Outcome describes one Build request. Schedule is only set when Status is Optimal
type Outcome struct {
	ID          string
	Schedule    Schedule
	Status      solver.Status
	Objective   int
	Variables   int
	Constraints int
	Elapsed     time.Duration
}

type Report struct {
	Valid      bool
	Violations []string
}

// Recorder receives the measurements of every request
type Recorder interface {
	ObserveBuild(backend string, status solver.Status, elapsed time.Duration, variables, constraints int)
	ObserveVerify(valid bool, violations int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveBuild(string, solver.Status, time.Duration, int, int) {}
func (nopRecorder) ObserveVerify(bool, int)                                     {}

type scheduler struct {
	solver    solver.Solver
	objective Objective
	budget    time.Duration
	extra     []ConstraintSource
	precheck  bool
	logger    zerolog.Logger
	recorder  Recorder
}

type Option func(*scheduler)

func WithObjective(objective Objective) Option {
	return func(scheduler *scheduler) { scheduler.objective = objective }
}

// WithTimeBudget bounds each search; a non-positive budget means no limit
func WithTimeBudget(budget time.Duration) Option {
	return func(scheduler *scheduler) { scheduler.budget = budget }
}

func WithExtraConstraints(sources ...ConstraintSource) Option {
	return func(scheduler *scheduler) { scheduler.extra = append(scheduler.extra, sources...) }
}

func WithPrecheck(enabled bool) Option {
	return func(scheduler *scheduler) { scheduler.precheck = enabled }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(scheduler *scheduler) { scheduler.logger = logger }
}

func WithRecorder(recorder Recorder) Option {
	return func(scheduler *scheduler) { scheduler.recorder = recorder }
}

func NewScheduler(solver solver.Solver, options ...Option) Scheduler {
	scheduler := &scheduler{
		solver:   solver,
		precheck: true,
		logger:   zerolog.Nop(),
		recorder: nopRecorder{},
	}
	for _, option := range options {
		option(scheduler)
	}
	return scheduler
}

func (scheduler *scheduler) Build(ctx context.Context, problem *Problem) (outcome Outcome, err error) {
	start := time.Now()
	outcome = Outcome{ID: uuid.NewString(), Status: solver.Other}
	logger := scheduler.logger.With().Str("request", outcome.ID).Str("backend", scheduler.solver.Name()).Logger()

	defer func() {
		outcome.Elapsed = time.Since(start)
		scheduler.recorder.ObserveBuild(scheduler.solver.Name(), outcome.Status, outcome.Elapsed, outcome.Variables, outcome.Constraints)
		if err != nil {
			logger.Warn().Err(err).Stringer("status", outcome.Status).Dur("elapsed", outcome.Elapsed).Msg("no schedule built")
			return
		}
		logger.Info().
			Int("items", len(outcome.Schedule)).
			Int("objective", outcome.Objective).
			Dur("elapsed", outcome.Elapsed).
			Msg("schedule built")
	}()

	//** Validate input
	if err := problem.Validate(); err != nil {
		return outcome, err
	}
	space, err := problem.Space()
	if err != nil {
		return outcome, err
	}

	//** Discard problems where some event has nowhere to go
	if scheduler.precheck {
		unmatched, err := precheck(problem, space)
		if err != nil {
			return outcome, err
		} else if len(unmatched) > 0 {
			outcome.Status = solver.Infeasible
			return outcome, InfeasibleError{
				Status: solver.Infeasible,
				Reason: fmt.Sprintf("no admissible slot for events %v", unmatched),
			}
		}
	}

	//** Register formulation
	session := scheduler.solver.NewSession()
	for v := range space.Len() {
		session.AddVar(space.Name(lp.Var(v)))
	}
	for constraint := range Constraints(problem, space, scheduler.extra...) {
		if err := session.AddConstraint(constraint.Label, constraint.Relation); err != nil {
			return outcome, err
		}
	}
	if scheduler.objective != nil {
		expr, err := scheduler.objective(problem, space)
		if err != nil {
			return outcome, fmt.Errorf("cannot build objective: %w", err)
		}
		if err := session.SetObjective(expr); err != nil {
			return outcome, err
		}
	}
	outcome.Variables, outcome.Constraints = session.Size()
	logger.Debug().Int("variables", outcome.Variables).Int("constraints", outcome.Constraints).Msg("formulation registered")

	//** Solve
	result, err := session.Solve(ctx, scheduler.budget)
	if err != nil {
		return outcome, fmt.Errorf("an error occurred during %v execution: %w", scheduler.solver.Name(), err)
	}
	outcome.Status = result.Status
	if result.Status != solver.Optimal {
		return outcome, InfeasibleError{Status: result.Status}
	}

	//** Decode solution
	schedule, err := DecodeSolution(problem, result.Values)
	if err != nil {
		return outcome, err
	}
	outcome.Schedule, outcome.Objective = schedule, result.Objective
	return outcome, nil
}

func (scheduler *scheduler) Verify(problem *Problem, schedule Schedule) (Report, error) {
	violations, err := ScheduleViolations(problem, schedule, scheduler.extra...)
	if err != nil {
		return Report{}, err
	}

	report := Report{Valid: len(schedule) > 0 && len(violations) == 0, Violations: violations}
	scheduler.recorder.ObserveVerify(report.Valid, len(violations))
	scheduler.logger.Debug().Bool("valid", report.Valid).Int("violations", len(violations)).Msg("schedule verified")
	return report, nil
}
