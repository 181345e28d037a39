// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/creditdesk/creditboard/internal/domain/task"
)

// ListFilter narrows a task listing.
type ListFilter struct {
	// IncludeArchived keeps archived tasks in the listing; by default only
	// the active board is returned.
	IncludeArchived bool
	// Quadrant, when valid, restricts the listing to one quadrant.
	Quadrant task.Quadrant
}

// Store is the port interface for task persistence.
type Store interface {
	// Tasks
	ListTasks(ctx context.Context, filter ListFilter) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	CreateTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, t *task.Task) error
	SetCompleted(ctx context.Context, id string, completed bool, at *time.Time) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Ordering. ReorderTasks applies every position in one transaction;
	// a failure leaves the stored ordering untouched.
	MoveTask(ctx context.Context, id string, quadrant task.Quadrant, position int) (*task.Task, error)
	ReorderTasks(ctx context.Context, quadrant task.Quadrant, orderedIDs []string) error
	MaxPosition(ctx context.Context, quadrant task.Quadrant) (int, error)

	// Lifecycle
	ArchiveTask(ctx context.Context, id string, at time.Time) (*task.Task, error)
	RestoreTask(ctx context.Context, id string) (*task.Task, error)
	ArchiveExpired(ctx context.Context, cutoff, at time.Time) (int64, error)
	UnarchiveIncomplete(ctx context.Context) (int64, error)
}
