package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"posterlab/internal/domain"
	"posterlab/internal/infra"
	"posterlab/internal/track"
)

// ErrMissingCredential indicates that a call was made without an API key.
var ErrMissingCredential = errors.New("kie: credential is required")

const (
	defaultBaseURL      = "https://api.kie.ai/api/v1"
	defaultModel        = "google/nano-banana-pro"
	defaultAspectRatio  = "3:4"
	defaultResolution   = "2K"
	defaultOutputFormat = "png"

	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// fallbackFailMsg is used when the server reports a failed job without a message.
const fallbackFailMsg = "generation failed"

// Options configures the kie.ai job client.
type Options struct {
	BaseURL      string
	Model        string
	HTTPClient   *http.Client
	Logger       *infra.Logger
	Tracker      *track.Tracker
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Client drives the remote image-generation job lifecycle: create a task,
// poll its status on a fixed interval, and fold the outcome into a tagged
// result. One job is handled per Generate call; concurrent calls share no
// mutable job state.
type Client struct {
	baseURL      string
	model        string
	httpClient   *http.Client
	logger       *infra.Logger
	tracker      *track.Tracker
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// ProgressFunc receives one notification per distinct observed job state.
type ProgressFunc func(state domain.JobState, message string)

type createTaskRequest struct {
	Model       string         `json:"model"`
	Input       map[string]any `json:"input"`
	CallBackURL *string        `json:"callBackUrl"`
}

type createTaskResponse struct {
	Data struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type recordInfoResponse struct {
	Data struct {
		State      string `json:"state"`
		ResultJSON string `json:"resultJson"`
		FailMsg    string `json:"failMsg"`
		CreateTime int64  `json:"createTime"`
		CostTime   int64  `json:"costTime"`
	} `json:"data"`
}

type apiErrorBody struct {
	Code     json.Number `json:"code"`
	Msg      string      `json:"msg"`
	FailMsg  string      `json:"failMsg"`
	FailCode string      `json:"failCode"`
}

type resultPayload struct {
	ResultURLs []string `json:"resultUrls"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = track.NewTracker()
	}
	return &Client{
		baseURL:      baseURL,
		model:        model,
		httpClient:   httpClient,
		logger:       logger,
		tracker:      tracker,
		pollInterval: interval,
		pollTimeout:  timeout,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Tracker exposes the in-flight task tracker shared with callers.
func (c *Client) Tracker() *track.Tracker {
	return c.tracker
}

// CreateJob submits one generation task and returns the server-assigned job
// identifier. Option fields override the documented defaults; the prompt is
// always taken from the argument.
func (c *Client) CreateJob(ctx context.Context, credential, prompt string, opts domain.JobOptions) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", ErrMissingCredential
	}
	input := map[string]any{
		"prompt":        prompt,
		"aspect_ratio":  defaultAspectRatio,
		"resolution":    defaultResolution,
		"output_format": defaultOutputFormat,
		"image_input":   []string{},
	}
	if v := strings.TrimSpace(opts.AspectRatio); v != "" {
		input["aspect_ratio"] = v
	}
	if v := strings.TrimSpace(opts.Resolution); v != "" {
		input["resolution"] = v
	}
	if v := strings.TrimSpace(opts.OutputFormat); v != "" {
		input["output_format"] = v
	}
	payload := createTaskRequest{Model: c.model, Input: input}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("kie: encode request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/jobs/createTask", credential, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var decoded createTaskResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &domain.ProtocolError{Message: "malformed create response"}
	}
	taskID := strings.TrimSpace(decoded.Data.TaskID)
	if taskID == "" {
		return "", &domain.ProtocolError{Message: "create response missing taskId"}
	}
	c.logger.Debug().Str("task_id", taskID).Str("model", c.model).Msg("kie: task created")
	return taskID, nil
}

// QueryStatus fetches the current snapshot of a job from the status endpoint.
func (c *Client) QueryStatus(ctx context.Context, credential, jobID string) (domain.JobSnapshot, error) {
	var snap domain.JobSnapshot
	endpoint := c.baseURL + "/jobs/recordInfo?taskId=" + url.QueryEscape(jobID)
	raw, err := c.do(ctx, http.MethodGet, endpoint, credential, nil)
	if err != nil {
		return snap, err
	}
	var decoded recordInfoResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return snap, &domain.ProtocolError{Message: "malformed status response"}
	}
	snap = domain.JobSnapshot{
		JobID:      jobID,
		State:      domain.JobState(decoded.Data.State),
		ResultJSON: decoded.Data.ResultJSON,
		FailMsg:    decoded.Data.FailMsg,
		CreateTime: decoded.Data.CreateTime,
		CostTime:   decoded.Data.CostTime,
	}
	return snap, nil
}

// PollUntilTerminal queries the job on the configured interval until the
// server reports a terminal state. onUpdate fires exactly once per maximal
// run of identical consecutive states; the same state reappearing later
// fires again, since the backend guarantees no particular ordering.
// Transport and API errors from the status endpoint abort the loop
// unmodified; retries are the caller's concern.
func (c *Client) PollUntilTerminal(ctx context.Context, credential, jobID string, onUpdate func(domain.JobSnapshot)) (domain.JobSnapshot, error) {
	start := time.Now()
	var lastState domain.JobState
	seen := false

	for {
		snap, err := c.QueryStatus(ctx, credential, jobID)
		if err != nil {
			return snap, err
		}
		if !seen || snap.State != lastState {
			seen = true
			lastState = snap.State
			if onUpdate != nil {
				onUpdate(snap)
			}
		}
		switch snap.State {
		case domain.JobStateSucceeded:
			return snap, nil
		case domain.JobStateFailed:
			msg := strings.TrimSpace(snap.FailMsg)
			if msg == "" {
				msg = fallbackFailMsg
			}
			return snap, &domain.JobFailedError{Message: msg}
		}
		if elapsed := time.Since(start); elapsed > c.pollTimeout {
			return snap, &domain.PollTimeoutError{Elapsed: elapsed}
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// GenerateImage runs the full create-then-poll lifecycle and never returns
// an error: every failure mode is folded into the tagged result so callers
// get uniform handling. The tracker entry is removed on every exit path.
func (c *Client) GenerateImage(ctx context.Context, credential, prompt string, opts domain.JobOptions, onProgress ProgressFunc) domain.GenerationResult {
	start := time.Now()

	jobID, err := c.CreateJob(ctx, credential, prompt, opts)
	if err != nil {
		c.logger.Warn().Err(err).Msg("kie: create task failed")
		return domain.GenerationResult{Success: false, Error: err.Error()}
	}

	c.tracker.Track(jobID, prompt)
	defer c.tracker.Forget(jobID)

	var onUpdate func(domain.JobSnapshot)
	if onProgress != nil {
		onUpdate = func(snap domain.JobSnapshot) {
			onProgress(snap.State, ProgressMessage(snap.State))
		}
	}

	snap, err := c.PollUntilTerminal(ctx, credential, jobID, onUpdate)
	if err != nil {
		c.logger.Warn().Err(err).Str("task_id", jobID).Msg("kie: generation failed")
		return domain.GenerationResult{Success: false, JobID: jobID, Error: err.Error()}
	}

	var result resultPayload
	if err := json.Unmarshal([]byte(snap.ResultJSON), &result); err != nil || len(result.ResultURLs) == 0 {
		c.logger.Warn().Str("task_id", jobID).Msg("kie: succeeded task carried no result urls")
		return domain.GenerationResult{Success: false, JobID: jobID, Error: "result payload missing image urls"}
	}

	elapsed := time.Since(start)
	c.logger.Info().
		Str("task_id", jobID).
		Dur("elapsed", elapsed).
		Msg("kie: generation complete")
	return domain.GenerationResult{
		Success:          true,
		JobID:            jobID,
		ImageURL:         result.ResultURLs[0],
		GenerationTimeMS: elapsed.Milliseconds(),
		CompletedAt:      time.Now(),
	}
}

// do performs one HTTP exchange and applies the shared error taxonomy:
// TransportError when the exchange itself fails, APIError on non-2xx.
func (c *Client) do(ctx context.Context, method, endpoint, credential string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("kie: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(credential))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: statusMessage(resp.StatusCode)}
		var detail apiErrorBody
		if err := json.Unmarshal(raw, &detail); err == nil {
			if detail.Msg != "" {
				apiErr.Message = detail.Msg
			} else if detail.FailMsg != "" {
				apiErr.Message = detail.FailMsg
			}
			if detail.FailCode != "" {
				apiErr.Code = detail.FailCode
			} else if detail.Code.String() != "" {
				apiErr.Code = detail.Code.String()
			}
		}
		return nil, apiErr
	}
	return raw, nil
}
