package handlers

import (
	"encoding/json"
	"net/http"

	"posterlab/internal/domain"
	"posterlab/internal/middleware"
)

type generateRequest struct {
	Title        string `json:"title"`
	Theme        string `json:"theme"`
	Prompt       string `json:"prompt,omitempty"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

type generateResponse struct {
	domain.GenerationResult
	Message   string                 `json:"message,omitempty"`
	HistoryID string                 `json:"history_id,omitempty"`
	Progress  []progressNotification `json:"progress"`
}

type progressNotification struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// PostersGenerate runs one poster generation synchronously: build the prompt
// from title and theme vocabulary, drive the remote job to a terminal state,
// and append the result to history when auto-save is on.
func (a *App) PostersGenerate(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", localize(locale, "missing_title"))
		return
	}
	theme, ok := a.Themes.Get(req.Theme)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", localize(locale, "unknown_theme"))
		return
	}
	credential := a.credential()
	if credential == "" {
		a.error(w, http.StatusUnauthorized, "missing_credential", localize(locale, "missing_credential"))
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = a.Themes.BuildPrompt(req.Title, theme)
	}
	opts := domain.JobOptions{
		AspectRatio:  req.AspectRatio,
		Resolution:   req.Resolution,
		OutputFormat: req.OutputFormat,
	}

	var progress []progressNotification
	result := a.Client.GenerateImage(r.Context(), credential, prompt, opts, func(state domain.JobState, message string) {
		progress = append(progress, progressNotification{State: string(state), Message: message})
	})

	resp := generateResponse{GenerationResult: result, Progress: progress}
	if !result.Success {
		resp.Message = localize(locale, "generation_failed")
		a.Logger.Warn().Str("job_id", result.JobID).Str("error", result.Error).Msg("poster generation failed")
		a.json(w, http.StatusOK, resp)
		return
	}

	if a.Store.GetPreferences().AutoSave {
		entry, saved := a.Store.AddToHistory(domain.HistoryEntry{
			Title:        req.Title,
			Theme:        theme.Key,
			ThemeName:    theme.Name,
			ImageURL:     result.ImageURL,
			GenerationMS: result.GenerationTimeMS,
		})
		if saved {
			resp.HistoryID = entry.ID
		} else {
			a.Logger.Warn().Str("job_id", result.JobID).Msg("history entry not saved")
		}
	}
	a.json(w, http.StatusOK, resp)
}
