package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

type inputMode int

const (
	stdinInput inputMode = iota
	fileInput            // DIMACS is passed as a file argument and the model is written to a second file (minisat family)
)

// externalSolver drives a SAT solver binary that reads DIMACS-CNF
type externalSolver struct {
	name string
	path string
	args []string
	mode inputMode
}

func NewKissatSolver(path string) Solver {
	return newExternalSolver("kissat", path, stdinInput, "-q", "--relaxed")
}

func NewCadicalSolver(path string) Solver {
	return newExternalSolver("cadical", path, stdinInput, "-q")
}

func NewCryptominisatSolver(path string) Solver {
	return newExternalSolver("cryptominisat5", path, stdinInput, "--verb=0")
}

func NewMinisatSolver(path string) Solver {
	return newExternalSolver("minisat", path, fileInput, "-verb=0")
}

func newExternalSolver(name, path string, mode inputMode, args ...string) Solver {
	if path == "" {
		path = name
	}
	return &externalSolver{name: name, path: path, args: args, mode: mode}
}

func (solver *externalSolver) Name() string {
	return solver.name
}

func (solver *externalSolver) NewSession() Session {
	return &externalSession{solver: solver}
}

type externalSession struct {
	problem
	solver *externalSolver
}

func (session *externalSession) Solve(ctx context.Context, budget time.Duration) (Result, error) {
	ctx, cancel := withBudget(ctx, budget)
	defer cancel()
	if ctx.Err() != nil {
		return Result{Status: Other}, nil
	}

	enc := encode(&session.problem)
	sat := toSAT(enc)

	solution, err := session.solver.solve(ctx, sat)
	if ctx.Err() != nil {
		return Result{Status: Other}, nil
	} else if err != nil {
		return Result{}, err
	} else if solution == nil {
		return Result{Status: Infeasible}, nil
	}

	values := enc.values(solution.model())
	if enc.objective == nil {
		return Result{Status: Optimal, Values: values}, nil
	}

	// Each improvement is forced with a unit clause since external solvers are not incremental
	cost := enc.objective.count(solution.model())
	for cost > 0 {
		bound := enc.objective.card.Leq(cost - 1)
		sat.Clauses = append(sat.Clauses, []int64{int64(bound.Dimacs())})

		solution, err = session.solver.solve(ctx, sat)
		if ctx.Err() != nil {
			return Result{Status: Other}, nil
		} else if err != nil {
			return Result{}, err
		} else if solution == nil {
			break
		}

		values = enc.values(solution.model())
		cost = enc.objective.count(solution.model())
	}

	return Result{Status: Optimal, Values: values, Objective: enc.objective.value(cost)}, nil
}

// Returns the solution if satisfiable, else returns nil (both are valid outputs where error shall be nil)
func (solver *externalSolver) solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	if solver.mode == fileInput {
		return solver.solveWithFiles(ctx, dimacs)
	}

	cmd := exec.CommandContext(ctx, solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	satisfiable, err := solver.interpret(cmd.Run(), cmd, &stderr)
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(stdOut.String())
}

func (solver *externalSolver) solveWithFiles(ctx context.Context, dimacs string) (SATSolution, error) {
	// Create a temporary file to hold the DIMACS content
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp("", solver.name+"_output-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(outputTempFile.Name())
	defer outputTempFile.Close()

	// Write the DIMACS content to the temporary file
	if _, err := inputTempFile.WriteString(dimacs); err != nil {
		return nil, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	args := append(append([]string{}, solver.args...), inputTempFile.Name(), outputTempFile.Name())
	cmd := exec.CommandContext(ctx, solver.path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	satisfiable, err := solver.interpret(cmd.Run(), cmd, &stderr)
	if err != nil || !satisfiable {
		return nil, err
	}

	output, err := io.ReadAll(outputTempFile) // Read the output file
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	// The first line is the header ("SAT"), the second one holds the model
	lines := strings.SplitN(string(output), "\n", 2)
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected %v output: %q", solver.name, string(output))
	}
	return parseSolution("v " + lines[1])
}

func (solver *externalSolver) interpret(runErr error, cmd *exec.Cmd, stderr *bytes.Buffer) (bool, error) {
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return false, fmt.Errorf("cannot execute %v: %w", solver.name, runErr)
	}

	switch cmd.ProcessState.ExitCode() {
	case exitSatisfiable:
		return true, nil
	case exitUnsatisfiable:
		return false, nil
	}
	return false, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, runErr, stderr.String())
}
