package handlers

import "net/http"

// ThemesList returns the vocabulary theme catalog.
func (a *App) ThemesList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"themes": a.Themes.List()})
}
