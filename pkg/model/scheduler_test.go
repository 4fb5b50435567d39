package model

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/limaJavier/confsched/pkg/lp"
	"github.com/limaJavier/confsched/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	builds   []solver.Status
	verifies []bool
}

func (recorder *fakeRecorder) ObserveBuild(_ string, status solver.Status, _ time.Duration, _, _ int) {
	recorder.builds = append(recorder.builds, status)
}

func (recorder *fakeRecorder) ObserveVerify(valid bool, _ int) {
	recorder.verifies = append(recorder.verifies, valid)
}

func TestBuildWithoutRooms(t *testing.T) {
	//** Arrange
	recorder := &fakeRecorder{}
	scheduler := NewScheduler(solver.NewGiniSolver(), WithRecorder(recorder))
	problem := &Problem{
		Events: []Event{talk("a"), talk("b")},
		Slots:  []Slot{hourSlot("main", 0), hourSlot("main", 1)},
	}

	//** Act
	outcome, err := scheduler.Build(context.Background(), problem)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, outcome.Status)
	assert.NotEmpty(t, outcome.ID)
	assert.Equal(t, 4, outcome.Variables)
	assert.Equal(t, 4, outcome.Constraints)
	require.Len(t, outcome.Schedule, 2)
	assert.NotEqual(t, outcome.Schedule[0].Event.Name, outcome.Schedule[1].Event.Name)
	assert.Nil(t, outcome.Schedule[0].Room)

	report, err := scheduler.Verify(problem, outcome.Schedule)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Violations)

	assert.Equal(t, []solver.Status{solver.Optimal}, recorder.builds)
	assert.Equal(t, []bool{true}, recorder.verifies)
}

func TestBuildInfeasible(t *testing.T) {
	problem := &Problem{
		Events:       []Event{talk("a")},
		Slots:        []Slot{hourSlot("main", 0), hourSlot("main", 1)},
		Availability: ones(1, 2),
	}
	problem.Availability.Zero()

	for _, precheck := range []bool{true, false} {
		scheduler := NewScheduler(solver.NewGiniSolver(), WithPrecheck(precheck))

		outcome, err := scheduler.Build(context.Background(), problem)

		require.ErrorIs(t, err, ErrInfeasible, "precheck %v", precheck)
		var infeasible InfeasibleError
		require.True(t, errors.As(err, &infeasible))
		assert.Equal(t, solver.Infeasible, infeasible.Status)
		assert.Equal(t, solver.Infeasible, outcome.Status)
		assert.Nil(t, outcome.Schedule)
	}
}

func TestBuildDegenerate(t *testing.T) {
	scheduler := NewScheduler(solver.NewGiniSolver())

	_, err := scheduler.Build(context.Background(), &Problem{Slots: []Slot{hourSlot("main", 0)}})

	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestBuildCanceled(t *testing.T) {
	scheduler := NewScheduler(solver.NewGiniSolver())
	problem := &Problem{
		Events: []Event{talk("a"), talk("b")},
		Slots:  []Slot{hourSlot("main", 0), hourSlot("main", 1)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := scheduler.Build(ctx, problem)

	require.ErrorIs(t, err, ErrInfeasible)
	assert.Equal(t, solver.Other, outcome.Status)
	assert.Nil(t, outcome.Schedule)
}

func TestBuildFromJson(t *testing.T) {
	problem, err := ProblemFromJson(testDirectory + "problem.json")
	require.NoError(t, err)
	scheduler := NewScheduler(solver.NewGiniSolver(), WithTimeBudget(time.Minute))

	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)
	require.Len(t, outcome.Schedule, len(problem.Events))

	for _, item := range outcome.Schedule {
		require.NotNil(t, item.Room)
		assert.Contains(t, item.Room.Suitability, item.Event.EventType)
		assert.LessOrEqual(t, item.Event.Demand, item.Room.Capacity)
	}

	valid, err := ValidSchedule(problem, outcome.Schedule)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBuildRespectsRooms(t *testing.T) {
	events := []Event{
		{Name: "a", EventType: "talk", Demand: 90},
		{Name: "b", EventType: "workshop", Demand: 10},
		{Name: "c", EventType: "talk", Demand: 20},
	}
	rooms := []Room{
		{Name: "auditorium", Capacity: 100, Suitability: []string{"talk"}},
		{Name: "lab", Capacity: 40, Suitability: []string{"workshop", "talk"}},
	}
	problem := &Problem{Events: events, Slots: []Slot{hourSlot("main", 0), hourSlot("main", 1)}, Rooms: rooms}
	scheduler := NewScheduler(solver.NewGiniSolver())

	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	placed := make(map[string]string)
	for _, item := range outcome.Schedule {
		placed[item.Event.Name] = item.Room.Name
	}
	assert.Equal(t, "auditorium", placed["a"])
	assert.Equal(t, "lab", placed["b"])
}

func TestBuildDissimilarEventsInSameSlot(t *testing.T) {
	rooms := []Room{
		{Name: "auditorium", Capacity: 100, Suitability: []string{"talk"}},
		{Name: "hall", Capacity: 100, Suitability: []string{"talk"}},
	}
	problem := &Problem{
		Events: []Event{talk("a", "go"), talk("b", "rust")},
		Slots:  []Slot{hourSlot("main", 0)},
		Rooms:  rooms,
	}
	scheduler := NewScheduler(solver.NewGiniSolver(), WithPrecheck(false))

	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	require.Len(t, outcome.Schedule, 2)
	assert.NotEqual(t, outcome.Schedule[0].Room.Name, outcome.Schedule[1].Room.Name)
}

func TestCapacityDemandDifference(t *testing.T) {
	events := []Event{{Name: "a", EventType: "talk", Demand: 30}}
	rooms := []Room{
		{Name: "auditorium", Capacity: 100, Suitability: []string{"talk"}},
		{Name: "classroom", Capacity: 40, Suitability: []string{"talk"}},
	}
	problem := &Problem{Events: events, Slots: []Slot{hourSlot("main", 0)}, Rooms: rooms}
	scheduler := NewScheduler(solver.NewGiniSolver(), WithObjective(CapacityDemandDifference()))

	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	require.Len(t, outcome.Schedule, 1)
	assert.Equal(t, "classroom", outcome.Schedule[0].Room.Name)
	assert.Equal(t, 10, outcome.Objective)
}

func TestNumberOfChanges(t *testing.T) {
	events := []Event{talk("a"), talk("b"), talk("c")}
	slots := []Slot{hourSlot("main", 0), hourSlot("main", 1), hourSlot("main", 2)}
	problem := &Problem{Events: events, Slots: slots, Availability: ones(3, 3)}

	// "c" can no longer take the last slot, so exactly one other event has to move
	existing := Schedule{item(events[0], slots[0]), item(events[1], slots[1]), item(events[2], slots[2])}
	problem.Availability.Set(2, 2, 0)
	problem.Availability.Set(2, 1, 0)

	scheduler := NewScheduler(solver.NewGiniSolver(), WithObjective(NumberOfChanges(existing)))
	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	// Moving "c" to slot 0 displaces "a", which takes slot 2: four cells change
	expected := Schedule{item(events[0], slots[2]), item(events[1], slots[1]), item(events[2], slots[0])}
	if diff := cmp.Diff(expected, outcome.Schedule, sortItems); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, outcome.Objective)
}

func TestNumberOfChangesKeepsValidSchedule(t *testing.T) {
	events := []Event{talk("a"), talk("b")}
	slots := []Slot{hourSlot("main", 0), hourSlot("main", 1)}
	problem := &Problem{Events: events, Slots: slots}
	existing := Schedule{item(events[0], slots[1]), item(events[1], slots[0])}

	scheduler := NewScheduler(solver.NewGiniSolver(), WithObjective(NumberOfChanges(existing)))
	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	if diff := cmp.Diff(existing, outcome.Schedule, sortItems); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, outcome.Objective)
}

func TestObjectiveWithUnknownEntity(t *testing.T) {
	problem := &Problem{Events: []Event{talk("a")}, Slots: []Slot{hourSlot("main", 0)}}
	existing := Schedule{item(talk("ghost"), hourSlot("main", 0))}

	scheduler := NewScheduler(solver.NewGiniSolver(), WithObjective(NumberOfChanges(existing)))
	_, err := scheduler.Build(context.Background(), problem)

	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestBuildWithExtraConstraints(t *testing.T) {
	events := []Event{talk("a"), talk("b")}
	slots := []Slot{hourSlot("main", 0), hourSlot("main", 1)}
	problem := &Problem{Events: events, Slots: slots}

	closing := func(problem *Problem, space *Space) iter.Seq[Constraint] {
		return func(yield func(Constraint) bool) {
			yield(NewConstraint("a closes the day", lp.Sum(space.Var(0, 1, 0)).Eq(1)))
		}
	}
	scheduler := NewScheduler(solver.NewGiniSolver(), WithExtraConstraints(closing))

	outcome, err := scheduler.Build(context.Background(), problem)
	require.NoError(t, err)

	expected := Schedule{item(events[0], slots[1]), item(events[1], slots[0])}
	if diff := cmp.Diff(expected, outcome.Schedule); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}

	// The same extra constraints apply when verifying
	report, err := scheduler.Verify(problem, Schedule{item(events[0], slots[0]), item(events[1], slots[1])})
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"a closes the day"}, report.Violations)
}

func TestBuildSeparatesClashingEvents(t *testing.T) {
	a, b := talk("a"), talk("b")
	a.Unavailability = []string{"b"}
	slots := []Slot{hourSlot("main", 0), hourSlot("annex", 0), hourSlot("main", 1)}
	problem := &Problem{Events: []Event{a, b}, Slots: slots}

	outcome, err := NewScheduler(solver.NewGiniSolver()).Build(context.Background(), problem)
	require.NoError(t, err)

	require.Len(t, outcome.Schedule, 2)
	assert.False(t, outcome.Schedule[0].Slot.Overlaps(outcome.Schedule[1].Slot))
}

func TestVerifyEmptySchedule(t *testing.T) {
	problem := &Problem{Events: []Event{talk("a")}, Slots: []Slot{hourSlot("main", 0)}}

	report, err := NewScheduler(solver.NewGiniSolver()).Verify(problem, Schedule{})

	require.NoError(t, err)
	assert.False(t, report.Valid)
}
