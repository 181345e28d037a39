package board

import (
	"errors"
	"testing"
	"time"

	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/task"
)

func boardFixture() []task.Task {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	archived := base.Add(time.Hour)
	return []task.Task{
		{ID: "a", Quadrant: task.QuadrantQ1, Position: 1, CreatedAt: base},
		{ID: "b", Quadrant: task.QuadrantQ1, Position: 2, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Quadrant: task.QuadrantQ1, Position: 3, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "d", Quadrant: task.QuadrantQ2, Position: 1, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "e", Quadrant: task.QuadrantQ2, Position: 5, CreatedAt: base.Add(4 * time.Minute), ArchivedAt: &archived, Completed: true},
	}
}

func TestSortActiveTieBreak(t *testing.T) {
	base := time.Now()
	tasks := []task.Task{
		{ID: "old", Position: 2, CreatedAt: base},
		{ID: "new", Position: 2, CreatedAt: base.Add(time.Hour)},
		{ID: "first", Position: 1, CreatedAt: base},
	}
	SortActive(tasks)

	want := []string{"first", "new", "old"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("SortActive order[%d] = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestNextPositionIgnoresArchived(t *testing.T) {
	tasks := boardFixture()
	// Q2 holds an archived task at position 5; it must not stretch the board.
	if got := NextPosition(tasks, task.QuadrantQ2); got != 2 {
		t.Errorf("NextPosition(Q2) = %d, want 2", got)
	}
	if got := NextPosition(tasks, task.QuadrantQ4); got != 1 {
		t.Errorf("NextPosition(empty Q4) = %d, want 1", got)
	}
}

func TestPlanMoveAppendsToEnd(t *testing.T) {
	tasks := boardFixture()
	plan, err := PlanMove(tasks, "d", task.QuadrantQ1)
	if err != nil {
		t.Fatalf("PlanMove() error = %v", err)
	}

	if len(plan.Updates) != 1 {
		t.Fatalf("PlanMove() updates = %d, want 1", len(plan.Updates))
	}
	got := plan.Updates[0]
	if got.Quadrant != task.QuadrantQ1 || got.Position != 4 {
		t.Errorf("PlanMove() update = %+v, want Q1 position 4", got)
	}
	pre := plan.Preimage[0]
	if pre.Quadrant != task.QuadrantQ2 || pre.Position != 1 {
		t.Errorf("PlanMove() preimage = %+v, want Q2 position 1", pre)
	}
}

func TestPlanMoveIdempotent(t *testing.T) {
	plan, err := PlanMove(boardFixture(), "a", task.QuadrantQ1)
	if err != nil {
		t.Fatalf("PlanMove() error = %v", err)
	}
	if plan != nil {
		t.Errorf("same-quadrant move must plan nothing, got %+v", plan)
	}
}

func TestPlanMoveErrors(t *testing.T) {
	if _, err := PlanMove(boardFixture(), "a", "Q9"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown quadrant error = %v, want ErrValidation", err)
	}
	if _, err := PlanMove(boardFixture(), "missing", task.QuadrantQ2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestPlanReorder(t *testing.T) {
	plan, err := PlanReorder(boardFixture(), task.QuadrantQ1, []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}

	want := []PositionUpdate{
		{ID: "c", Quadrant: task.QuadrantQ1, Position: 1},
		{ID: "a", Quadrant: task.QuadrantQ1, Position: 2},
		{ID: "b", Quadrant: task.QuadrantQ1, Position: 3},
	}
	if len(plan.Updates) != len(want) {
		t.Fatalf("PlanReorder() updates = %d, want %d", len(plan.Updates), len(want))
	}
	for i, u := range want {
		if plan.Updates[i] != u {
			t.Errorf("update[%d] = %+v, want %+v", i, plan.Updates[i], u)
		}
	}
}

func TestPlanReorderIgnoresForeignIDs(t *testing.T) {
	// "d" lives in Q2 and "e" is archived; both must be skipped without
	// leaving gaps in the assigned positions.
	plan, err := PlanReorder(boardFixture(), task.QuadrantQ1, []string{"b", "d", "e", "a"})
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}
	if len(plan.Updates) != 2 {
		t.Fatalf("PlanReorder() updates = %d, want 2", len(plan.Updates))
	}
	if plan.Updates[0] != (PositionUpdate{ID: "b", Quadrant: task.QuadrantQ1, Position: 1}) {
		t.Errorf("update[0] = %+v", plan.Updates[0])
	}
	if plan.Updates[1] != (PositionUpdate{ID: "a", Quadrant: task.QuadrantQ1, Position: 2}) {
		t.Errorf("update[1] = %+v", plan.Updates[1])
	}
}

func TestPlanReorderValidation(t *testing.T) {
	if _, err := PlanReorder(boardFixture(), "Q7", []string{"a"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown quadrant error = %v, want ErrValidation", err)
	}
	if _, err := PlanReorder(boardFixture(), task.QuadrantQ1, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty ids error = %v, want ErrValidation", err)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	tasks := boardFixture()
	next := Apply(tasks, []PositionUpdate{{ID: "a", Quadrant: task.QuadrantQ3, Position: 1}})

	if tasks[0].Quadrant != task.QuadrantQ1 || tasks[0].Position != 1 {
		t.Errorf("Apply() mutated its input: %+v", tasks[0])
	}
	if next[0].Quadrant != task.QuadrantQ3 || next[0].Position != 1 {
		t.Errorf("Apply() result = %+v, want Q3 position 1", next[0])
	}
}

func TestApplyThenPreimageRoundTrips(t *testing.T) {
	tasks := boardFixture()
	plan, err := PlanReorder(tasks, task.QuadrantQ1, []string{"c", "b", "a"})
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}

	moved := Apply(tasks, plan.Updates)
	restored := Apply(moved, plan.Preimage)
	for i := range tasks {
		if restored[i].Quadrant != tasks[i].Quadrant || restored[i].Position != tasks[i].Position {
			t.Errorf("task %s after rollback = (%s,%d), want (%s,%d)",
				tasks[i].ID, restored[i].Quadrant, restored[i].Position, tasks[i].Quadrant, tasks[i].Position)
		}
	}
}
