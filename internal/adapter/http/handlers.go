package http

import (
	"net/http"

	"github.com/creditdesk/creditboard/internal/domain/task"
	"github.com/creditdesk/creditboard/internal/service"
)

// Handlers bundles the services exposed over HTTP.
type Handlers struct {
	Tasks     *service.TaskService
	Reminders *service.ReminderService
	Ledger    *service.LedgerService
	Targets   *service.TargetService
	BodyLimit int64
}

// ListTasks returns the board and its financial totals in one envelope;
// ?include_archived=true switches to the history view.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	snap, err := h.Tasks.List(r.Context(), includeArchived)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if snap.Tasks == nil {
		snap.Tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetTask returns one task by ID.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTask creates a task at the end of its quadrant.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.CreateRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}
	t, err := h.Tasks.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTask applies a full edit to a task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.UpdateRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}
	t, err := h.Tasks.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type patchRequest struct {
	Completed *bool          `json:"completed"`
	Quadrant  *task.Quadrant `json:"quadrant"`
}

// PatchTask applies a partial update: toggle completion, move to another
// quadrant (appended to its end), or both in one call.
func (h *Handlers) PatchTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[patchRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}
	if req.Completed == nil && req.Quadrant == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	id := urlParam(r, "id")
	var t *task.Task
	var err error
	if req.Quadrant != nil {
		t, err = h.Tasks.Move(r.Context(), id, *req.Quadrant)
		if err != nil {
			writeDomainError(w, err, "task not found")
			return
		}
	}
	if req.Completed != nil {
		t, err = h.Tasks.SetCompleted(r.Context(), id, *req.Completed)
		if err != nil {
			writeDomainError(w, err, "task not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask destroys an open task; completed tasks are archived instead
// and returned with 200 so the client can show where the task went.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	archived, err := h.Tasks.Delete(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	if archived == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

// RestoreTask brings an archived task back to the completed state.
func (h *Handlers) RestoreTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Restore(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "archived task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type reorderRequest struct {
	Quadrant   task.Quadrant `json:"quadrant"`
	OrderedIDs []string      `json:"ordered_ids"`
}

// ReorderTasks replaces the ordering of one quadrant.
func (h *Handlers) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[reorderRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}
	if err := h.Tasks.Reorder(r.Context(), req.Quadrant, req.OrderedIDs); err != nil {
		writeDomainError(w, err, "reorder failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReminders returns the scored attention list.
func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.Reminders.List(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}
