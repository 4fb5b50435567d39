package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/limaJavier/confsched/pkg/model"
	"github.com/limaJavier/confsched/pkg/solver"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type testMetadata struct {
	Name    string
	Events  int
	Slots   int
	Rooms   int
	problem *model.Problem
}

type benchmarkResult struct {
	Solver      string
	Test        testMetadata
	Variables   int
	Constraints int
	Duration    time.Duration
	Result      string
}

func newBenchmarkCommand(app *app) *cobra.Command {
	var directory, out string
	var backends []string
	var budget time.Duration

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Solve every input file of a directory with each backend and write the measurements as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if budget <= 0 {
				budget = app.config.Solver.TimeBudget
			}
			for _, backend := range backends {
				if _, ok := solvers[backend]; !ok {
					return fmt.Errorf("%v is not a valid solver", backend)
				}
			}

			tests, err := getTests(directory)
			if err != nil {
				return err
			}

			results := make([]benchmarkResult, 0, len(tests)*len(backends))
			for _, test := range tests {
				for _, backend := range backends {
					fmt.Fprintf(cmd.ErrOrStderr(), "Benchmarking test \"%v\" with solver \"%v\"\n", test.Name, backend)
					result, err := measure(cmd.Context(), app, backend, budget, test)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
			}

			if out == "" {
				err = toCsv(cmd.OutOrStdout(), results)
			} else {
				err = writeCsv(out, results)
			}
			if err != nil {
				return err
			}
			return app.flush()
		},
	}
	cmd.Flags().StringVarP(&directory, "dir", "d", "", "directory holding the input files")
	cmd.Flags().StringSliceVar(&backends, "solvers", []string{"gini"}, "backends to benchmark")
	cmd.Flags().DurationVar(&budget, "budget", 0, "search time budget per run; overrides the configuration")
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV output file; if empty, it'll be written into the standard output")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func getTests(directory string) ([]testMetadata, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return filepath.Join(directory, entry.Name()), !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json")
	})

	tests := make([]testMetadata, 0, len(files))
	for _, filename := range files {
		problem, err := model.ProblemFromJson(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot parse input file %v: %w", filename, err)
		}
		tests = append(tests, testMetadata{
			Name:    filename,
			Events:  len(problem.Events),
			Slots:   len(problem.Slots),
			Rooms:   len(problem.Rooms),
			problem: problem,
		})
	}
	return tests, nil
}

func measure(ctx context.Context, app *app, backend string, budget time.Duration, test testMetadata) (benchmarkResult, error) {
	engine, err := newSolver(backend, app.config.SolverPath(backend))
	if err != nil {
		return benchmarkResult{}, err
	}
	scheduler := model.NewScheduler(engine,
		model.WithTimeBudget(budget),
		model.WithPrecheck(*app.config.Solver.Precheck),
		model.WithLogger(app.logger),
		model.WithRecorder(app.recorder),
	)

	outcome, err := scheduler.Build(ctx, test.problem)
	if err != nil && !errors.Is(err, model.ErrInfeasible) {
		return benchmarkResult{}, fmt.Errorf("an error occurred at test \"%v\" using solver \"%v\": %w", test.Name, backend, err)
	}

	return benchmarkResult{
		Solver:      backend,
		Test:        test,
		Variables:   outcome.Variables,
		Constraints: outcome.Constraints,
		Duration:    outcome.Elapsed,
		Result:      resultOf(outcome.Status),
	}, nil
}

func resultOf(status solver.Status) string {
	switch status {
	case solver.Optimal:
		return "solved"
	case solver.Infeasible:
		return "infeasible"
	default:
		return "timeout"
	}
}

func writeCsv(path string, results []benchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	if err := toCsv(file, results); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("cannot close CSV file: %w", err)
	}
	return nil
}

func toCsv(out io.Writer, results []benchmarkResult) error {
	writer := csv.NewWriter(out)

	header := []string{"Solver", "Test", "Events", "Slots", "Rooms", "Variables", "Constraints", "Duration(ms)", "Result"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Events),
			fmt.Sprintf("%d", result.Test.Slots),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Variables),
			fmt.Sprintf("%d", result.Constraints),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
			result.Result,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
