package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type credentialRequest struct {
	Credential string `json:"credential"`
}

// CredentialPut stores the API credential (obfuscated at rest). An empty
// credential clears the stored value.
func (a *App) CredentialPut(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	saved := a.Store.SaveCredential(strings.TrimSpace(req.Credential))
	a.json(w, http.StatusOK, map[string]any{"saved": saved})
}

// CredentialStatus reports whether a credential is configured, exposing only
// a masked suffix for identification.
func (a *App) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	cred := a.credential()
	if cred == "" {
		a.json(w, http.StatusOK, map[string]any{"configured": false})
		return
	}
	masked := cred
	if len(masked) > 4 {
		masked = "****" + masked[len(masked)-4:]
	}
	a.json(w, http.StatusOK, map[string]any{
		"configured": true,
		"masked":     masked,
	})
}
