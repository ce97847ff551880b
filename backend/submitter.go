// Package backend talks to the job-portal API: employer registration and the
// company listing feed.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"employer-registration/shared"
)

const (
	registerPath     = "/api/employee/register"
	statusSuccess    = "success"
	maxResponseBytes = 1 << 20
)

// Submitter sends registration records to the backend. It never retries.
type Submitter struct {
	baseURL string
	http    *http.Client
}

// NewSubmitter builds a Submitter for the API at baseURL. A nil client uses http.DefaultClient.
func NewSubmitter(baseURL string, hc *http.Client) *Submitter {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Submitter{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type registerResponse struct {
	Status  *string `json:"status"`
	Message string  `json:"message"`
}

// Submit sends exactly one registration request and interprets the answer.
// Transport failures and unrecognised bodies become a generic failure; the
// error return carries the cause for logging only.
func (s *Submitter) Submit(ctx context.Context, rec shared.RegistrationRecord) (shared.SubmissionOutcome, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("encoding registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+registerPath, bytes.NewReader(payload))
	if err != nil {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("building registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("sending registration: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("reading registration response: %w", err)
	}
	return interpret(resp.StatusCode, raw)
}

func interpret(statusCode int, raw []byte) (shared.SubmissionOutcome, error) {
	var body registerResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("registration response (HTTP %d) is not JSON: %w", statusCode, err)
	}
	if body.Status == nil || strings.TrimSpace(*body.Status) == "" {
		return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("registration response (HTTP %d) has no status", statusCode)
	}

	message := sanitizeText(body.Message)
	if *body.Status == statusSuccess {
		if statusCode < 200 || statusCode > 299 {
			return shared.Failed(shared.MessageUnexpectedError), fmt.Errorf("registration response claims success with HTTP %d", statusCode)
		}
		if message == "" {
			message = shared.MessageRegistrationDone
		}
		return shared.Succeeded(message), nil
	}
	if message == "" {
		message = shared.MessageUnexpectedError
	}
	return shared.Failed(message), nil
}
