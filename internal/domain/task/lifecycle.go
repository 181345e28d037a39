package task

import "time"

// ArchiveAfter is how long a completed task stays on the active board
// before the sweep archives it.
const ArchiveAfter = 7 * 24 * time.Hour

// State is the lifecycle state derived from the completed/archived flags.
type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateArchived  State = "archived"
)

// State derives the lifecycle state of the task.
func (t *Task) State() State {
	switch {
	case t.ArchivedAt != nil:
		return StateArchived
	case t.Completed:
		return StateCompleted
	default:
		return StateActive
	}
}

// Complete marks the task done at the given time.
func (t *Task) Complete(now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
}

// Reopen undoes completion. It also clears the archival mark: an
// archived-but-uncompleted task is an invalid state and must never be
// constructed.
func (t *Task) Reopen() {
	t.Completed = false
	t.CompletedAt = nil
	t.ArchivedAt = nil
}

// Archive soft-removes the task from the active board. Callers must only
// archive completed tasks; ShouldArchive encodes the sweep rule.
func (t *Task) Archive(now time.Time) {
	t.ArchivedAt = &now
}

// Restore brings an archived task back to the completed state.
func (t *Task) Restore() {
	t.ArchivedAt = nil
}

// Deletable reports whether a hard delete is permitted. Only tasks that
// are not completed (and therefore not archived) may be destroyed;
// deleting anything else is redefined as an archive to preserve history.
func (t *Task) Deletable() bool {
	return !t.Completed && t.ArchivedAt == nil
}

// ShouldArchive reports whether the sweep must archive the task: completed
// strictly more than ArchiveAfter ago and not yet archived.
func (t *Task) ShouldArchive(now time.Time) bool {
	if !t.Completed || t.CompletedAt == nil || t.ArchivedAt != nil {
		return false
	}
	return now.Sub(*t.CompletedAt) > ArchiveAfter
}

// NeedsHeal reports whether the task is in the invalid
// archived-but-uncompleted state the sweep self-heals.
func (t *Task) NeedsHeal() bool {
	return !t.Completed && t.ArchivedAt != nil
}
