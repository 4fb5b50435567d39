package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/limaJavier/confsched/pkg/model"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	file      string
	out       string
	backend   string
	budget    time.Duration
	objective string
	existing  string
}

func newSolveCommand(app *app) *cobra.Command {
	options := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Build a schedule for the events, slots and rooms of an input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, app, options)
		},
	}
	cmd.Flags().StringVarP(&options.file, "file", "f", "", "path to the input file")
	cmd.Flags().StringVarP(&options.out, "out", "o", "", "path to the file where the schedule will be written; if empty, it'll be written into the standard output")
	cmd.Flags().StringVar(&options.backend, "solver", "", "solver backend (gini, kissat, cadical, cryptominisat, minisat); overrides the configuration")
	cmd.Flags().DurationVar(&options.budget, "budget", 0, "search time budget; overrides the configuration")
	cmd.Flags().StringVar(&options.objective, "objective", "none", `objective to minimize: "none", "changes" (requires --existing) or "capacity"`)
	cmd.Flags().StringVar(&options.existing, "existing", "", "existing schedule used by the \"changes\" objective")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSolve(cmd *cobra.Command, app *app, options *solveOptions) error {
	//** Extract input
	problem, err := model.ProblemFromJson(options.file)
	if err != nil {
		return fmt.Errorf("cannot parse input file: %w", err)
	}

	//** Initialize engines
	backend := app.config.Solver.Backend
	if options.backend != "" {
		backend = options.backend
	}
	budget := app.config.Solver.TimeBudget
	if options.budget > 0 {
		budget = options.budget
	}
	engine, err := newSolver(backend, app.config.SolverPath(backend))
	if err != nil {
		return err
	}

	schedulerOptions := []model.Option{
		model.WithTimeBudget(budget),
		model.WithPrecheck(*app.config.Solver.Precheck),
		model.WithLogger(app.logger),
		model.WithRecorder(app.recorder),
	}
	switch options.objective {
	case "none":
	case "capacity":
		schedulerOptions = append(schedulerOptions, model.WithObjective(model.CapacityDemandDifference()))
	case "changes":
		if options.existing == "" {
			return fmt.Errorf("the changes objective requires an existing schedule")
		}
		existing, err := model.ScheduleFromJson(options.existing, problem)
		if err != nil {
			return fmt.Errorf("cannot parse existing schedule: %w", err)
		}
		schedulerOptions = append(schedulerOptions, model.WithObjective(model.NumberOfChanges(existing)))
	default:
		return fmt.Errorf("%v is not a valid objective", options.objective)
	}
	scheduler := model.NewScheduler(engine, schedulerOptions...)

	//** Build schedule
	outcome, err := scheduler.Build(cmd.Context(), problem)
	fmt.Fprintf(cmd.ErrOrStderr(), "Variables: %v\nConstraints: %v\n", outcome.Variables, outcome.Constraints)
	if errors.Is(err, model.ErrInfeasible) {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return app.exit(exitInfeasible)
	} else if err != nil {
		return fmt.Errorf("an error occurred during schedule construction: %w", err)
	}

	//** Verify schedule correctness
	report, err := scheduler.Verify(problem, outcome.Schedule)
	if err != nil {
		return err
	} else if !report.Valid {
		for _, violation := range report.Violations {
			fmt.Fprintln(cmd.ErrOrStderr(), violation)
		}
		return app.exit(exitVerifyFail)
	}

	//** Write output
	scheduleJson, err := outcome.Schedule.ToJson()
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}
	if options.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(scheduleJson))
	} else if err := os.WriteFile(options.out, scheduleJson, 0o666); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}

	return app.exit(exitSolved)
}
