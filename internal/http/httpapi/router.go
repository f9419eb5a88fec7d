package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"posterlab/internal/http/handlers"
	"posterlab/internal/middleware"
)

// Options carries the router-level settings.
type Options struct {
	DefaultLocale  string
	AllowedOrigins []string
}

// NewRouter builds the API surface: poster generation, history,
// preferences, themes, export/import, credential, and task introspection.
func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.I18N(opts.DefaultLocale))

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/themes", app.ThemesList)

	r.Post("/v1/posters", app.PostersGenerate)

	r.Route("/v1/history", func(r chi.Router) {
		r.Get("/", app.HistoryList)
		r.Delete("/", app.HistoryClear)
		r.Delete("/{id}", app.HistoryDelete)
	})

	r.Route("/v1/preferences", func(r chi.Router) {
		r.Get("/", app.PreferencesGet)
		r.Patch("/", app.PreferencesPatch)
	})

	r.Get("/v1/export", app.Export)
	r.Post("/v1/import", app.Import)

	r.Route("/v1/credential", func(r chi.Router) {
		r.Get("/", app.CredentialStatus)
		r.Put("/", app.CredentialPut)
	})

	r.Route("/v1/tasks", func(r chi.Router) {
		r.Get("/", app.TasksList)
		r.Delete("/{id}", app.TasksCancel)
	})

	return r
}
