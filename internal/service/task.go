// Package service orchestrates the domain engines over the persistence
// and cache ports.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creditdesk/creditboard/internal/adapter/otel"
	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/board"
	"github.com/creditdesk/creditboard/internal/domain/task"
	"github.com/creditdesk/creditboard/internal/port/cache"
	"github.com/creditdesk/creditboard/internal/port/database"
)

const (
	boardCacheKey = "board:active"
	boardCacheTTL = 30 * time.Second

	deadlineLayout = "2006-01-02"
)

// TaskService handles the task board: CRUD, ordering, lifecycle and the
// retention sweep.
type TaskService struct {
	store        database.Store
	cache        cache.Cache
	metrics      *otel.Metrics
	archiveAfter time.Duration
	now          func() time.Time
}

// NewTaskService creates a new TaskService. archiveAfter is the retention
// window for completed tasks; non-positive falls back to the default.
func NewTaskService(store database.Store, c cache.Cache, metrics *otel.Metrics, archiveAfter time.Duration) *TaskService {
	if archiveAfter <= 0 {
		archiveAfter = task.ArchiveAfter
	}
	return &TaskService{store: store, cache: c, metrics: metrics, archiveAfter: archiveAfter, now: time.Now}
}

// BoardSnapshot is one consistent read of the board: the listed tasks plus
// the financial totals over every task, archived included, computed from
// the same fetch.
type BoardSnapshot struct {
	Tasks  []task.Task `json:"tasks"`
	Totals task.Totals `json:"totals"`
}

// List returns the board with its totals. Listing the active board runs
// the retention sweep first, so a board that is simply being looked at
// stays tidy: completed tasks past the retention window move to the
// archive and tasks stuck in the invalid archived-but-uncompleted state
// are healed back. The archived history view never sweeps.
func (s *TaskService) List(ctx context.Context, includeArchived bool) (*BoardSnapshot, error) {
	if !includeArchived {
		if err := s.sweep(ctx); err != nil {
			// A failed sweep must not take the board down with it.
			slog.Error("retention sweep failed", "error", err)
		}
		if cached, ok := s.cachedBoard(ctx); ok {
			return cached, nil
		}
	}

	all, err := s.store.ListTasks(ctx, database.ListFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}

	snap := &BoardSnapshot{Totals: task.Summarize(all)}
	if includeArchived {
		snap.Tasks = all
		board.SortHistory(snap.Tasks)
		return snap, nil
	}

	for _, t := range all {
		if t.Active() {
			snap.Tasks = append(snap.Tasks, t)
		}
	}
	board.SortActive(snap.Tasks)
	s.cacheBoard(ctx, snap)
	return snap, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create validates and persists a new task at the end of its quadrant.
func (s *TaskService) Create(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}
	t := &task.Task{
		ID:                 uuid.NewString(),
		Title:              req.Title,
		Quadrant:           req.Quadrant,
		Type:               req.Type,
		Note:               req.Note,
		Deadline:           deadline,
		AmountDisbursement: req.AmountDisbursement,
		ServiceFee:         req.ServiceFee,
		AmountRecovery:     req.AmountRecovery,
		AmountMobilized:    req.AmountMobilized,
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}
	t.NormalizeAmounts()
	if req.Completed {
		t.Complete(s.now())
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	s.metrics.TasksCreated.Add(ctx, 1)
	s.invalidateBoard(ctx)
	return t, nil
}

// Update applies a full edit to a task. Ordering and lifecycle fields are
// untouched; completion goes through SetCompleted.
func (s *TaskService) Update(ctx context.Context, id string, req task.UpdateRequest) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}
	t.Title = req.Title
	t.Quadrant = req.Quadrant
	t.Type = req.Type
	t.Note = req.Note
	t.Deadline = deadline
	t.AmountDisbursement = req.AmountDisbursement
	t.ServiceFee = req.ServiceFee
	t.AmountRecovery = req.AmountRecovery
	t.AmountMobilized = req.AmountMobilized
	if err := validateTask(t); err != nil {
		return nil, err
	}
	t.NormalizeAmounts()

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateBoard(ctx)
	return t, nil
}

// SetCompleted flips the completion flag. Reopening a task also clears
// its archival mark.
func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) (*task.Task, error) {
	var at *time.Time
	if completed {
		now := s.now()
		at = &now
	}
	t, err := s.store.SetCompleted(ctx, id, completed, at)
	if err != nil {
		return nil, err
	}
	if completed {
		s.metrics.TasksCompleted.Add(ctx, 1)
	}
	s.invalidateBoard(ctx)
	return t, nil
}

// Delete destroys an open task. Completed and archived tasks are never
// destroyed: deleting a completed task archives it instead, and deleting
// an already archived task leaves it archived. The returned task is nil
// only when a hard delete actually happened.
func (s *TaskService) Delete(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Deletable() {
		if err := s.store.DeleteTask(ctx, id); err != nil {
			return nil, err
		}
		s.invalidateBoard(ctx)
		return nil, nil
	}

	if !t.Active() {
		return t, nil
	}

	archived, err := s.store.ArchiveTask(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.TasksArchived.Add(ctx, 1)
	s.invalidateBoard(ctx)
	return archived, nil
}

// Restore brings an archived task back to the completed state.
func (s *TaskService) Restore(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.store.RestoreTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateBoard(ctx)
	return t, nil
}

// Move relocates a task to another quadrant, appending it to the end
// there. Moving a task to its current quadrant is a no-op.
func (s *TaskService) Move(ctx context.Context, id string, target task.Quadrant) (*task.Task, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown quadrant %q", domain.ErrValidation, target)
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Quadrant == target {
		return t, nil
	}

	maxPos, err := s.store.MaxPosition(ctx, target)
	if err != nil {
		return nil, err
	}
	moved, err := s.store.MoveTask(ctx, id, target, maxPos+1)
	if err != nil {
		return nil, err
	}
	s.invalidateBoard(ctx)
	return moved, nil
}

// Reorder replaces the ordering of one quadrant with the given sequence.
func (s *TaskService) Reorder(ctx context.Context, quadrant task.Quadrant, orderedIDs []string) error {
	if !quadrant.Valid() {
		return fmt.Errorf("%w: unknown quadrant %q", domain.ErrValidation, quadrant)
	}
	if len(orderedIDs) == 0 {
		return fmt.Errorf("%w: ordered ids are required", domain.ErrValidation)
	}

	if err := s.store.ReorderTasks(ctx, quadrant, orderedIDs); err != nil {
		return err
	}
	s.metrics.BoardReorders.Add(ctx, 1)
	s.invalidateBoard(ctx)
	return nil
}

func (s *TaskService) sweep(ctx context.Context) error {
	healed, err := s.store.UnarchiveIncomplete(ctx)
	if err != nil {
		return fmt.Errorf("heal archived tasks: %w", err)
	}
	if healed > 0 {
		slog.Warn("healed archived-but-uncompleted tasks", "count", healed)
	}

	now := s.now()
	swept, err := s.store.ArchiveExpired(ctx, now.Add(-s.archiveAfter), now)
	if err != nil {
		return fmt.Errorf("archive expired tasks: %w", err)
	}
	if swept > 0 {
		slog.Info("retention sweep archived tasks", "count", swept)
		s.metrics.SweepArchived.Add(ctx, swept)
		s.metrics.TasksArchived.Add(ctx, swept)
	}
	if healed > 0 || swept > 0 {
		s.invalidateBoard(ctx)
	}
	return nil
}

func (s *TaskService) cachedBoard(ctx context.Context) (*BoardSnapshot, bool) {
	data, ok, err := s.cache.Get(ctx, boardCacheKey)
	if err != nil || !ok {
		return nil, false
	}
	var snap BoardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func (s *TaskService) cacheBoard(ctx context.Context, snap *BoardSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, boardCacheKey, data, boardCacheTTL); err != nil {
		slog.Debug("board cache set failed", "error", err)
	}
}

func (s *TaskService) invalidateBoard(ctx context.Context) {
	if err := s.cache.Delete(ctx, boardCacheKey); err != nil {
		slog.Debug("board cache invalidation failed", "error", err)
	}
}

func validateTask(t *task.Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !t.Quadrant.Valid() {
		return fmt.Errorf("%w: unknown quadrant %q", domain.ErrValidation, t.Quadrant)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown task type %q", domain.ErrValidation, t.Type)
	}
	if t.AmountDisbursement < 0 || t.ServiceFee < 0 || t.AmountRecovery < 0 || t.AmountMobilized < 0 {
		return fmt.Errorf("%w: amounts must not be negative", domain.ErrValidation)
	}
	return nil
}

func parseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline must be YYYY-MM-DD", domain.ErrValidation)
	}
	return &d, nil
}
