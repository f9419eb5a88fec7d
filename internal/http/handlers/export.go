package handlers

import (
	"encoding/json"
	"net/http"

	"posterlab/internal/store"
)

// Export returns the portable data document (history and preferences; the
// credential is deliberately excluded).
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="posterlab-export.json"`)
	a.json(w, http.StatusOK, a.Store.ExportAllData())
}

// Import merges an uploaded export document into the store, reporting
// partial failures without aborting the other half.
func (a *App) Import(w http.ResponseWriter, r *http.Request) {
	var payload store.ExportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid export document")
		return
	}
	report := a.Store.ImportData(payload)
	code := http.StatusOK
	if !report.Success {
		code = http.StatusMultiStatus
	}
	a.json(w, code, report)
}
