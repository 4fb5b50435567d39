package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "../../pkg/model/testdata/"

func TestValidateCommand(t *testing.T) {
	code := execute([]string{"validate", "--file", testDirectory + "problem.json", "--schedule", testDirectory + "schedule.json"})
	assert.Equal(t, exitSolved, code)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o666))
	code = execute([]string{"validate", "--file", testDirectory + "problem.json", "--schedule", empty})
	assert.Equal(t, exitVerifyFail, code)
}

func TestSolveCommand(t *testing.T) {
	directory := t.TempDir()
	out := filepath.Join(directory, "schedule.json")
	textfile := filepath.Join(directory, "confsched.prom")
	t.Setenv("CONFSCHED_METRICS__TEXTFILE", textfile)

	code := execute([]string{"solve", "--file", testDirectory + "problem.json", "--out", out, "--solver", "gini", "--objective", "capacity"})
	require.Equal(t, exitSolved, code)

	// The written schedule passes validation on its own
	code = execute([]string{"validate", "--file", testDirectory + "problem.json", "--schedule", out})
	assert.Equal(t, exitSolved, code)

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "confsched_validations_total")
}

func TestSolveCommandErrors(t *testing.T) {
	assert.Equal(t, 1, execute([]string{"solve", "--file", testDirectory + "problem.json", "--solver", "unknown"}))
	assert.Equal(t, 1, execute([]string{"solve", "--file", testDirectory + "problem.json", "--objective", "unknown"}))
	assert.Equal(t, 1, execute([]string{"solve", "--file", testDirectory + "problem.json", "--objective", "changes"}))
	assert.Equal(t, 1, execute([]string{"solve", "--file", testDirectory + "missing.json"}))
}

func TestBenchmarkCommand(t *testing.T) {
	directory := t.TempDir()
	problem, err := os.ReadFile(testDirectory + "problem.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(directory, "problem.json"), problem, 0o666))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("ignored"), 0o666))
	out := filepath.Join(t.TempDir(), "results.csv")

	code := execute([]string{"benchmark", "--dir", directory, "--solvers", "gini", "--out", out})
	require.Equal(t, 0, code)

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Solver", records[0][0])
	assert.Equal(t, "gini", records[1][0])
	assert.Equal(t, "solved", records[1][8])
}

func TestWriteCsv(t *testing.T) {
	results := []benchmarkResult{{Solver: "gini", Test: testMetadata{Name: "a.json", Events: 2, Slots: 2}, Result: "solved"}}

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, writeCsv(path, results))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Solver,Test,Events,Slots,Rooms,Variables,Constraints,Duration(ms),Result\ngini,a.json,2,2,0,0,0,0,solved\n", string(content))

	// A directory cannot be created as a file
	assert.Error(t, writeCsv(t.TempDir(), results))
}
