package kie

import (
	"fmt"
	"net/http"

	"posterlab/internal/domain"
)

// stateMessages maps job states to the human-readable progress lines shown
// while a generation is in flight.
var stateMessages = map[domain.JobState]string{
	domain.JobStateQueued:     "queued, please wait",
	domain.JobStateRunning:    "drawing in progress",
	domain.JobStateProcessing: "post-processing",
	domain.JobStateSucceeded:  "done",
	domain.JobStateFailed:     "failed, please retry",
}

// ProgressMessage renders a job state for display. Unknown states degrade to
// a generic line; the backend does not guarantee a fixed state vocabulary.
func ProgressMessage(state domain.JobState) string {
	if msg, ok := stateMessages[state]; ok {
		return msg
	}
	return fmt.Sprintf("status: %s", state)
}

// statusMessages is the fallback lookup used when an error response carries
// no server-supplied message.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "invalid request",
	http.StatusUnauthorized:        "invalid or expired credential",
	http.StatusPaymentRequired:     "insufficient balance",
	http.StatusNotFound:            "not found",
	http.StatusUnprocessableEntity: "validation failed",
	http.StatusTooManyRequests:     "rate limited",
	http.StatusInternalServerError: "server error",
	http.StatusBadGateway:          "gateway error",
	http.StatusServiceUnavailable:  "service unavailable",
	http.StatusGatewayTimeout:      "gateway timeout",
}

func statusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("unexpected status %d", status)
}
