package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Tasks
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Post("/tasks/reorder", h.ReorderTasks)
		r.Get("/tasks/{id}", h.GetTask)
		r.Put("/tasks/{id}", h.UpdateTask)
		r.Patch("/tasks/{id}", h.PatchTask)
		r.Delete("/tasks/{id}", h.DeleteTask)
		r.Post("/tasks/{id}/restore", h.RestoreTask)

		// Reminders
		r.Get("/reminders", h.ListReminders)

		// Targets
		r.Get("/targets", h.GetTargets)
		r.Put("/targets", h.PutTargets)
		r.Delete("/targets", h.ResetTargets)

		// Ledger
		r.Get("/ledger/outstanding", h.GetOutstanding)
		r.Put("/ledger/baseline", h.SetBaseline)
		r.Post("/ledger/reset-day", h.ResetDay)
	})
}
