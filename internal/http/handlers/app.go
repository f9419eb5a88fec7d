package handlers

import (
	"encoding/json"
	"net/http"

	"posterlab/internal/infra"
	"posterlab/internal/provider/kie"
	"posterlab/internal/store"
	"posterlab/internal/themes"
	"posterlab/internal/track"
)

// App is the handler container binding the job client, the persistence
// store, and the tracker to HTTP routes.
type App struct {
	Store   *store.Store
	Client  *kie.Client
	Tracker *track.Tracker
	Themes  *themes.Catalog
	Logger  infra.Logger

	// FallbackCredential is used when no credential has been saved to the
	// store (typically the KIE_API_KEY environment value).
	FallbackCredential string
}

// NewApp wires the handler container.
func NewApp(st *store.Store, client *kie.Client, catalog *themes.Catalog, logger infra.Logger, fallbackCredential string) *App {
	return &App{
		Store:              st,
		Client:             client,
		Tracker:            client.Tracker(),
		Themes:             catalog,
		Logger:             logger,
		FallbackCredential: fallbackCredential,
	}
}

// credential resolves the API credential: stored value first, then the
// configured fallback.
func (a *App) credential() string {
	if cred, ok := a.Store.LoadCredential(); ok {
		return cred
	}
	return a.FallbackCredential
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error":   slug,
		"message": message,
	})
}
