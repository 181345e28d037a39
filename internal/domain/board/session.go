package board

import (
	"context"

	"github.com/creditdesk/creditboard/internal/domain/task"
)

// Store is the slice of the task store a Session needs. Reorder is
// all-or-nothing at the store: either every position updates or none do.
type Store interface {
	MoveTask(ctx context.Context, id string, quadrant task.Quadrant, position int) (*task.Task, error)
	ReorderTasks(ctx context.Context, quadrant task.Quadrant, orderedIDs []string) error
}

// Session runs the optimistic intent pipeline over a local snapshot:
// compute plan, apply locally, confirm against the store, and on failure
// restore the exact preimage of the touched tasks. Unrelated local edits
// survive a rollback; the session never refetches to recover.
type Session struct {
	store Store
	tasks []task.Task
}

// NewSession creates a session over the given snapshot.
func NewSession(store Store, snapshot []task.Task) *Session {
	tasks := make([]task.Task, len(snapshot))
	copy(tasks, snapshot)
	return &Session{store: store, tasks: tasks}
}

// Tasks returns the current local snapshot.
func (s *Session) Tasks() []task.Task {
	return s.tasks
}

// Quadrant returns the active tasks of q in board order.
func (s *Session) Quadrant(q task.Quadrant) []task.Task {
	return ActiveInQuadrant(s.tasks, q)
}

// Replace swaps in a fresh snapshot, e.g. after a full reload.
func (s *Session) Replace(snapshot []task.Task) {
	tasks := make([]task.Task, len(snapshot))
	copy(tasks, snapshot)
	s.tasks = tasks
}

// Move moves a task to another quadrant, appending it to the end there.
// A no-op when the task is already in target.
func (s *Session) Move(ctx context.Context, id string, target task.Quadrant) error {
	plan, err := PlanMove(s.tasks, id, target)
	if err != nil || plan == nil {
		return err
	}

	s.tasks = Apply(s.tasks, plan.Updates)

	u := plan.Updates[0]
	if _, err := s.store.MoveTask(ctx, u.ID, u.Quadrant, u.Position); err != nil {
		s.tasks = Apply(s.tasks, plan.Preimage)
		return err
	}
	return nil
}

// Reorder replaces the ordering of quadrant q with orderedIDs.
func (s *Session) Reorder(ctx context.Context, q task.Quadrant, orderedIDs []string) error {
	plan, err := PlanReorder(s.tasks, q, orderedIDs)
	if err != nil {
		return err
	}

	s.tasks = Apply(s.tasks, plan.Updates)

	if err := s.store.ReorderTasks(ctx, q, orderedIDs); err != nil {
		s.tasks = Apply(s.tasks, plan.Preimage)
		return err
	}
	return nil
}
