package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creditdesk/creditboard/internal/domain/task"
	"github.com/creditdesk/creditboard/internal/port/database"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, title, quadrant, type, note, deadline,
	amount_disbursement, service_fee, amount_recovery, amount_mobilized,
	completed, completed_at, archived_at, position, created_at`

// --- Tasks ---

func (s *Store) ListTasks(ctx context.Context, filter database.ListFilter) ([]task.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	var conds []string
	var args []any
	if !filter.IncludeArchived {
		conds = append(conds, `archived_at IS NULL`)
	}
	if filter.Quadrant.Valid() {
		args = append(args, string(filter.Quadrant))
		conds = append(conds, fmt.Sprintf(`quadrant = $%d`, len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += ` WHERE ` + c
		} else {
			q += ` AND ` + c
		}
	}
	q += ` ORDER BY position ASC, created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "get task %s", id)
	}
	return &t, nil
}

// CreateTask inserts t and appends it to the end of its quadrant. The
// position is assigned inside the statement so two concurrent creates
// cannot claim the same slot.
func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, title, quadrant, type, note, deadline,
		   amount_disbursement, service_fee, amount_recovery, amount_mobilized,
		   completed, completed_at, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		   COALESCE((SELECT MAX(position) FROM tasks
		             WHERE quadrant = $3 AND archived_at IS NULL), 0) + 1)
		 RETURNING position, created_at`,
		t.ID, t.Title, string(t.Quadrant), string(t.Type), t.Note, dateOnly(t.Deadline),
		t.AmountDisbursement, t.ServiceFee, t.AmountRecovery, t.AmountMobilized,
		t.Completed, t.CompletedAt,
	).Scan(&t.Position, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, quadrant = $3, type = $4, note = $5, deadline = $6,
		   amount_disbursement = $7, service_fee = $8, amount_recovery = $9, amount_mobilized = $10
		 WHERE id = $1`,
		t.ID, t.Title, string(t.Quadrant), string(t.Type), t.Note, dateOnly(t.Deadline),
		t.AmountDisbursement, t.ServiceFee, t.AmountRecovery, t.AmountMobilized)
	return execExpectOne(tag, err, "update task %s", t.ID)
}

// SetCompleted flips the completion flag. Reopening also clears the
// archival mark so the task returns to the active board.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool, at *time.Time) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET completed = $2,
		     completed_at = CASE WHEN $2 THEN $3 ELSE NULL END,
		     archived_at = CASE WHEN $2 THEN archived_at ELSE NULL END
		 WHERE id = $1
		 RETURNING `+taskColumns, id, completed, at)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "set task %s completed", id)
	}
	return &t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete task %s", id)
}

// --- Ordering ---

func (s *Store) MoveTask(ctx context.Context, id string, quadrant task.Quadrant, position int) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET quadrant = $2, position = $3 WHERE id = $1
		 RETURNING `+taskColumns, id, string(quadrant), position)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "move task %s", id)
	}
	return &t, nil
}

// ReorderTasks rewrites the ordering of one quadrant in a single
// transaction: each listed task gets position index+1 and is pulled into
// the quadrant. A failure rolls the whole ordering back.
func (s *Store) ReorderTasks(ctx context.Context, quadrant task.Quadrant, orderedIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for i, id := range orderedIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE tasks SET quadrant = $2, position = $3 WHERE id = $1`,
			id, string(quadrant), i+1); err != nil {
			return fmt.Errorf("reorder task %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

func (s *Store) MaxPosition(ctx context.Context, quadrant task.Quadrant) (int, error) {
	var maxPos int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM tasks
		 WHERE quadrant = $1 AND archived_at IS NULL`, string(quadrant)).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("max position %s: %w", quadrant, err)
	}
	return maxPos, nil
}

// --- Lifecycle ---

func (s *Store) ArchiveTask(ctx context.Context, id string, at time.Time) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL
		 RETURNING `+taskColumns, id, at)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "archive task %s", id)
	}
	return &t, nil
}

func (s *Store) RestoreTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET archived_at = NULL WHERE id = $1 AND archived_at IS NOT NULL
		 RETURNING `+taskColumns, id)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "restore task %s", id)
	}
	return &t, nil
}

// ArchiveExpired archives every completed task whose completion timestamp
// is strictly before cutoff. Returns the number of tasks swept.
func (s *Store) ArchiveExpired(ctx context.Context, cutoff, at time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET archived_at = $2
		 WHERE completed AND completed_at IS NOT NULL AND completed_at < $1 AND archived_at IS NULL`,
		cutoff, at)
	if err != nil {
		return 0, fmt.Errorf("archive expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UnarchiveIncomplete heals tasks stuck in the invalid
// archived-but-uncompleted state by returning them to the board.
func (s *Store) UnarchiveIncomplete(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET archived_at = NULL
		 WHERE NOT completed AND archived_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("unarchive incomplete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// --- Scanners ---

func scanTask(row scannable) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Quadrant, &t.Type, &t.Note, &t.Deadline,
		&t.AmountDisbursement, &t.ServiceFee, &t.AmountRecovery, &t.AmountMobilized,
		&t.Completed, &t.CompletedAt, &t.ArchivedAt, &t.Position, &t.CreatedAt,
	)
	return t, err
}
