package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"posterlab/internal/middleware"
)

// HistoryList returns the persisted generation history, oldest first.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	entries := a.Store.GetHistory()
	a.json(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// HistoryDelete removes one entry by id.
func (a *App) HistoryDelete(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	if !a.Store.RemoveFromHistory(id) {
		a.error(w, http.StatusNotFound, "not_found", localize(locale, "history_not_found"))
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted": id})
}

// HistoryClear drops the whole collection.
func (a *App) HistoryClear(w http.ResponseWriter, r *http.Request) {
	cleared := a.Store.ClearHistory()
	a.json(w, http.StatusOK, map[string]any{"cleared": cleared})
}
