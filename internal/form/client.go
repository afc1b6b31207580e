package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/registration-relay/internal/dto"
	"github.com/noah-isme/registration-relay/internal/models"
)

const maxRelayBody = 1 << 20

// Submitter delivers a registration payload to the relay.
type Submitter interface {
	Submit(ctx context.Context, payload models.RegistrationPayload) (*dto.SubmitRegistrationResponse, error)
}

// TransportError reports a submission that never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "relay request failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx relay response.
type StatusError struct {
	StatusCode int
	// Message is the relay's own "error" field, empty when the body carried none.
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("relay responded %d", e.StatusCode)
}

// HTTPSubmitter posts registrations to the relay endpoint as JSON.
type HTTPSubmitter struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPSubmitter builds a submitter bounded by timeout. A nil client uses a fresh http.Client.
func NewHTTPSubmitter(url string, timeout time.Duration, client *http.Client) *HTTPSubmitter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSubmitter{url: url, timeout: timeout, client: client}
}

// Submit sends the payload and decodes the relay's answer.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload models.RegistrationPayload) (*dto.SubmitRegistrationResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode registration: %w", err)
	}

	status, body, err := s.do(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var failure dto.RelayErrorResponse
		_ = json.Unmarshal(body, &failure)
		return nil, &StatusError{StatusCode: status, Message: strings.TrimSpace(failure.Error), Body: body}
	}

	// A 2xx is a success even when the body is unreadable.
	out := dto.SubmitRegistrationResponse{Success: true}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return &dto.SubmitRegistrationResponse{Success: true}, nil
		}
	}
	return &out, nil
}

// Probe calls the relay's webhook test endpoint.
func (s *HTTPSubmitter) Probe(ctx context.Context, probeURL string) (int, *dto.WebhookProbeResult, error) {
	status, body, err := s.do(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return 0, nil, err
	}
	var out dto.WebhookProbeResult
	if err := json.Unmarshal(body, &out); err != nil {
		return status, nil, &StatusError{StatusCode: status, Body: body}
	}
	return status, &out, nil
}

func (s *HTTPSubmitter) do(ctx context.Context, method, url string, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Err: err}
	}
	return resp.StatusCode, raw, nil
}
