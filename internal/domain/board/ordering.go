// Package board maintains the per-quadrant ordering of active tasks.
//
// Mutations are expressed as plans: a plan carries the position updates to
// apply plus the exact preimage of every task it touches, so a failed store
// call can be compensated by restoring the preimage instead of refetching.
package board

import (
	"fmt"
	"sort"

	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/task"
)

// PositionUpdate assigns a quadrant and position to a single task.
type PositionUpdate struct {
	ID       string
	Quadrant task.Quadrant
	Position int
}

// Plan is a computed ordering mutation. Preimage holds the prior
// (quadrant, position) of every task in Updates, in the same order.
type Plan struct {
	Updates  []PositionUpdate
	Preimage []PositionUpdate
}

// SortActive orders tasks for the active board: position ascending, equal
// positions fall back to newest-created first. Equal positions are a
// defined tie-break (a partially failed reorder can leave them), not an
// error.
func SortActive(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// SortHistory orders tasks for archive/history views: newest-created first.
func SortHistory(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// ActiveInQuadrant returns the active tasks of q in board order.
func ActiveInQuadrant(tasks []task.Task, q task.Quadrant) []task.Task {
	var out []task.Task
	for i := range tasks {
		if tasks[i].Quadrant == q && tasks[i].Active() {
			out = append(out, tasks[i])
		}
	}
	SortActive(out)
	return out
}

// NextPosition computes the append-to-end position for quadrant q:
// one past the maximum position held by an active task in q.
func NextPosition(tasks []task.Task, q task.Quadrant) int {
	maxPos := 0
	for i := range tasks {
		t := &tasks[i]
		if t.Quadrant == q && t.Active() && t.Position > maxPos {
			maxPos = t.Position
		}
	}
	return maxPos + 1
}

// PlanMove computes the cross-quadrant move of a task. The moved task is
// always appended to the end of the target quadrant; the drop slot is
// ignored. Returns (nil, nil) when the task is already in target; the
// move is idempotent and must issue no store call.
func PlanMove(tasks []task.Task, id string, target task.Quadrant) (*Plan, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown quadrant %q", domain.ErrValidation, target)
	}
	var cur *task.Task
	for i := range tasks {
		if tasks[i].ID == id {
			cur = &tasks[i]
			break
		}
	}
	if cur == nil {
		return nil, fmt.Errorf("plan move %s: %w", id, domain.ErrNotFound)
	}
	if cur.Quadrant == target {
		return nil, nil
	}
	return &Plan{
		Updates:  []PositionUpdate{{ID: id, Quadrant: target, Position: NextPosition(tasks, target)}},
		Preimage: []PositionUpdate{{ID: id, Quadrant: cur.Quadrant, Position: cur.Position}},
	}, nil
}

// PlanReorder computes the full replacement ordering of quadrant q.
// orderedIDs is the complete desired sequence; each listed task active in q
// gets position index+1. Ids not active in q are ignored. An empty id list
// or unknown quadrant is rejected before any store call.
func PlanReorder(tasks []task.Task, q task.Quadrant, orderedIDs []string) (*Plan, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: unknown quadrant %q", domain.ErrValidation, q)
	}
	if len(orderedIDs) == 0 {
		return nil, fmt.Errorf("%w: ordered ids are required", domain.ErrValidation)
	}

	inQuadrant := make(map[string]*task.Task)
	for i := range tasks {
		if tasks[i].Quadrant == q && tasks[i].Active() {
			inQuadrant[tasks[i].ID] = &tasks[i]
		}
	}

	plan := &Plan{}
	pos := 0
	for _, id := range orderedIDs {
		t, ok := inQuadrant[id]
		if !ok {
			continue
		}
		pos++
		plan.Updates = append(plan.Updates, PositionUpdate{ID: id, Quadrant: q, Position: pos})
		plan.Preimage = append(plan.Preimage, PositionUpdate{ID: id, Quadrant: t.Quadrant, Position: t.Position})
	}
	return plan, nil
}

// Apply returns a new snapshot with the updates applied. The input slice
// is left untouched.
func Apply(tasks []task.Task, updates []PositionUpdate) []task.Task {
	next := make([]task.Task, len(tasks))
	copy(next, tasks)
	for _, u := range updates {
		for i := range next {
			if next[i].ID == u.ID {
				next[i].Quadrant = u.Quadrant
				next[i].Position = u.Position
				break
			}
		}
	}
	return next
}
