package http

import (
	"net/http"

	"github.com/creditdesk/creditboard/internal/domain/ledger"
)

// GetOutstanding returns the current ledger view, rolling the day first
// if the day key changed since the last request.
func (h *Handlers) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	view, err := h.Ledger.Outstanding(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetBaseline stores a user-entered ledger baseline.
func (h *Handlers) SetBaseline(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[ledger.Baseline](w, r, h.BodyLimit)
	if !ok {
		return
	}
	if err := h.Ledger.SetBaseline(r.Context(), req); err != nil {
		writeDomainError(w, err, "baseline update failed")
		return
	}
	view, err := h.Ledger.Outstanding(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ResetDay re-zeroes today's displayed movement without touching the
// stored baseline or any task.
func (h *Handlers) ResetDay(w http.ResponseWriter, r *http.Request) {
	view, err := h.Ledger.ResetDay(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
