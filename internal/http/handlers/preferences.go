package handlers

import (
	"encoding/json"
	"net/http"

	"posterlab/internal/domain"
)

// PreferencesGet returns the stored preferences merged over defaults.
func (a *App) PreferencesGet(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Store.GetPreferences())
}

// PreferencesPatch applies a partial update; unspecified keys keep their
// previous or default values.
func (a *App) PreferencesPatch(w http.ResponseWriter, r *http.Request) {
	var patch domain.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	merged, ok := a.Store.SavePreferences(patch)
	if !ok {
		a.json(w, http.StatusOK, map[string]any{"saved": false, "preferences": merged})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"saved": true, "preferences": merged})
}
