package http

import (
	"net/http"

	"github.com/creditdesk/creditboard/internal/service"
)

// GetTargets returns the yearly and monthly performance goals.
func (h *Handlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	view, err := h.Targets.Get(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// PutTargets replaces both goal documents and echoes the stored state.
func (h *Handlers) PutTargets(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.TargetView](w, r, h.BodyLimit)
	if !ok {
		return
	}
	if err := h.Targets.Set(r.Context(), req); err != nil {
		writeDomainError(w, err, "invalid targets")
		return
	}
	view, err := h.Targets.Get(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ResetTargets clears stored goals so the defaults apply again.
func (h *Handlers) ResetTargets(w http.ResponseWriter, r *http.Request) {
	if err := h.Targets.Reset(r.Context()); err != nil {
		writeInternalError(w, err)
		return
	}
	view, err := h.Targets.Get(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
