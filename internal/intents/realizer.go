package intents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RealizeStatus is the remote system's verdict on a realize call.
type RealizeStatus string

const (
	// StatusCreated means the remote created a new process instance.
	StatusCreated RealizeStatus = "created"

	// StatusExists means the instance already existed; realization is
	// idempotent on the remote side.
	StatusExists RealizeStatus = "exists"
)

// Realizer pushes one intent to the remote system of record.
//
// Implementations return RealizeFailedError for any non-success outcome so
// the queue can keep the intent for retry.
type Realizer interface {
	Realize(ctx context.Context, intent Intent) (RealizeStatus, error)
}

// HTTPRealizer realizes intents against the process-intents endpoint.
type HTTPRealizer struct {
	// Endpoint is the full realize URL, e.g.
	// "http://localhost:8632/api/process-intents/realize".
	Endpoint string

	// Client defaults to http.DefaultClient when nil.
	Client *http.Client
}

type realizeResponse struct {
	Status string `json:"status"`
}

// Realize POSTs the intent as JSON and maps the response status.
// Any non-2xx response is a hard failure for this intent.
func (r *HTTPRealizer) Realize(ctx context.Context, intent Intent) (RealizeStatus, error) {
	body, err := json.Marshal(intent)
	if err != nil {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, StatusCode: resp.StatusCode}
	}

	var out realizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, Err: fmt.Errorf("decode response: %w", err)}
	}

	switch RealizeStatus(out.Status) {
	case StatusCreated, StatusExists:
		return RealizeStatus(out.Status), nil
	default:
		return "", &RealizeFailedError{
			Scope: intent.Scope, TaskKey: intent.TaskKey,
			Err: fmt.Errorf("unexpected status %q", out.Status),
		}
	}
}
