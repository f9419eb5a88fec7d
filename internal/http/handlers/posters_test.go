package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"posterlab/internal/http/handlers"
	"posterlab/internal/http/httpapi"
	"posterlab/internal/infra"
	"posterlab/internal/provider/kie"
	"posterlab/internal/store"
	"posterlab/internal/themes"
	"posterlab/internal/track"
)

// apiStub scripts the remote generation API for one job.
type apiStub struct {
	states      []string
	resultJSON  string
	statusCalls int
}

func (s *apiStub) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Path, "/jobs/createTask") {
		io.Copy(io.Discard, req.Body)
		req.Body.Close()
		return stubResponse(`{"data":{"taskId":"task-e2e"}}`), nil
	}
	idx := s.statusCalls
	s.statusCalls++
	if idx >= len(s.states) {
		idx = len(s.states) - 1
	}
	body, _ := json.Marshal(map[string]any{"data": map[string]any{
		"state":      s.states[idx],
		"resultJson": s.resultJSON,
	}})
	return stubResponse(string(body)), nil
}

func stubResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestServer(t *testing.T, transport http.RoundTripper) (http.Handler, *store.Store, *track.Tracker) {
	t.Helper()
	logger := infra.Logger(zerolog.New(io.Discard))

	substrate, err := store.NewFileSubstrate(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("substrate: %v", err)
	}
	st := store.NewStore(store.Options{Substrate: substrate, Logger: &logger})

	catalog, err := themes.Load()
	if err != nil {
		t.Fatalf("themes: %v", err)
	}

	tracker := track.NewTracker()
	client := kie.NewClient(kie.Options{
		HTTPClient:   &http.Client{Transport: transport},
		Logger:       &logger,
		Tracker:      tracker,
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
	})

	app := handlers.NewApp(st, client, catalog, logger, "env-credential")
	router := httpapi.NewRouter(app, httpapi.Options{DefaultLocale: "zh-CN"})
	return router, st, tracker
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %s: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestPostersGenerateSavesHistory(t *testing.T) {
	stub := &apiStub{
		states:     []string{"queued", "running", "succeeded"},
		resultJSON: `{"resultUrls":["https://x/y.png"]}`,
	}
	router, st, tracker := newTestServer(t, stub)

	rec, resp := doJSON(t, router, http.MethodPost, "/v1/posters", map[string]any{
		"title": "动物朋友",
		"theme": "animals",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp["success"] != true {
		t.Fatalf("response = %v", resp)
	}
	if resp["image_url"] != "https://x/y.png" {
		t.Fatalf("image_url = %v", resp["image_url"])
	}
	if resp["history_id"] == nil || resp["history_id"] == "" {
		t.Fatalf("history_id missing: %v", resp)
	}
	progress, ok := resp["progress"].([]any)
	if !ok || len(progress) != 3 {
		t.Fatalf("progress = %v", resp["progress"])
	}

	entries := st.GetHistory()
	if len(entries) != 1 || entries[0].Title != "动物朋友" || entries[0].Theme != "animals" {
		t.Fatalf("history = %+v", entries)
	}
	if tracker.Count() != 0 {
		t.Fatalf("tracker retained %d entries", tracker.Count())
	}
}

func TestPostersGenerateFailureIsTaggedNotThrown(t *testing.T) {
	stub := &apiStub{states: []string{"failed"}}
	router, st, _ := newTestServer(t, stub)

	rec, resp := doJSON(t, router, http.MethodPost, "/v1/posters", map[string]any{
		"title": "动物朋友",
		"theme": "animals",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp["success"] != false {
		t.Fatalf("response = %v", resp)
	}
	if resp["error"] == nil {
		t.Fatalf("error message missing")
	}
	if got := len(st.GetHistory()); got != 0 {
		t.Fatalf("failed generation saved to history: %d entries", got)
	}
}

func TestPostersGenerateValidation(t *testing.T) {
	router, _, _ := newTestServer(t, &apiStub{states: []string{"succeeded"}})

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/posters", map[string]any{"theme": "animals"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title: status = %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/posters", map[string]any{
		"title": "x", "theme": "no-such-theme",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown theme: status = %d", rec.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	stub := &apiStub{
		states:     []string{"succeeded"},
		resultJSON: `{"resultUrls":["https://x/y.png"]}`,
	}
	router, st, _ := newTestServer(t, stub)

	doJSON(t, router, http.MethodPost, "/v1/posters", map[string]any{"title": "一", "theme": "numbers"})

	rec, resp := doJSON(t, router, http.MethodGet, "/v1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v", resp["count"])
	}

	id := st.GetHistory()[0].ID
	rec, _ = doJSON(t, router, http.MethodDelete, "/v1/history/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodDelete, "/v1/history/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestPreferencesAndExportImport(t *testing.T) {
	router, _, _ := newTestServer(t, &apiStub{states: []string{"succeeded"}})

	rec, resp := doJSON(t, router, http.MethodPatch, "/v1/preferences", map[string]any{"locale": "en", "auto_save": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	prefs := resp["preferences"].(map[string]any)
	if prefs["locale"] != "en" || prefs["auto_save"] != false {
		t.Fatalf("preferences = %v", prefs)
	}
	if prefs["max_history"] != float64(50) {
		t.Fatalf("unpatched key lost default: %v", prefs)
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/v1/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if resp["version"] == nil || resp["preferences"] == nil {
		t.Fatalf("export = %v", resp)
	}

	rec, resp = doJSON(t, router, http.MethodPost, "/v1/import", resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp["success"] != true {
		t.Fatalf("import report = %v", resp)
	}
}

func TestCredentialEndpoints(t *testing.T) {
	router, _, _ := newTestServer(t, &apiStub{states: []string{"succeeded"}})

	// Fallback credential from the environment is reported as configured.
	rec, resp := doJSON(t, router, http.MethodGet, "/v1/credential", nil)
	if rec.Code != http.StatusOK || resp["configured"] != true {
		t.Fatalf("status = %d, resp = %v", rec.Code, resp)
	}

	rec, _ = doJSON(t, router, http.MethodPut, "/v1/credential", map[string]any{"credential": "abc1234567"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d", rec.Code)
	}
	_, resp = doJSON(t, router, http.MethodGet, "/v1/credential", nil)
	if resp["masked"] != "****4567" {
		t.Fatalf("masked = %v", resp["masked"])
	}
}

func TestTasksCancelIsLocalOnly(t *testing.T) {
	router, _, tracker := newTestServer(t, &apiStub{states: []string{"succeeded"}})

	rec, _ := doJSON(t, router, http.MethodDelete, "/v1/tasks/absent", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cancel absent status = %d", rec.Code)
	}

	tracker.Track("task-cancel", "prompt")
	rec, resp := doJSON(t, router, http.MethodDelete, "/v1/tasks/task-cancel", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("cancel status = %d", rec.Code)
	}
	if resp["note"] == nil {
		t.Fatalf("cancel note missing")
	}
	if tracker.Count() != 0 {
		t.Fatalf("tracker count = %d", tracker.Count())
	}
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestServer(t, &apiStub{states: []string{"succeeded"}})

	rec, resp := doJSON(t, router, http.MethodGet, "/v1/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp["status"] != "ok" || resp["storage_available"] != true {
		t.Fatalf("health = %v", resp)
	}
}
