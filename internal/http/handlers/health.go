package handlers

import "net/http"

// Health reports service liveness and storage availability.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"storage_available": a.Store.IsAvailable(),
		"active_tasks":      a.Tracker.Count(),
	})
}
