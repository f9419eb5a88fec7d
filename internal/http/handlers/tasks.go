package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"posterlab/internal/middleware"
)

// TasksList reports the in-flight generation tasks.
func (a *App) TasksList(w http.ResponseWriter, r *http.Request) {
	entries := a.Tracker.Active()
	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{
			"job_id":     e.JobID,
			"prompt":     e.Prompt,
			"started_at": e.StartTime.Format(time.RFC3339),
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"count": a.Tracker.Count(),
		"tasks": items,
	})
}

// TasksCancel forgets a tracked task. Cancellation is local-only: the remote
// service exposes no abort endpoint, so the job runs to completion
// server-side regardless.
func (a *App) TasksCancel(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	if !a.Tracker.Forget(id) {
		a.error(w, http.StatusNotFound, "not_found", localize(locale, "task_not_found"))
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"cancelled": id,
		"note":      localize(locale, "cancel_note"),
	})
}
