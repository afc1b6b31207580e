package dto

import "encoding/json"

// RelayResult is the outcome of a successful forward to the webhook.
type RelayResult struct {
	SubmissionID   string      `json:"-"`
	Message        string      `json:"message"`
	Data           interface{} `json:"data"`
	UpstreamStatus int         `json:"-"`
}

// WebhookProbeResult describes a webhook test call.
type WebhookProbeResult struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message,omitempty"`
	Error         string              `json:"error,omitempty"`
	WebhookStatus int                 `json:"webhookStatus,omitempty"`
	WebhookData   interface{}         `json:"webhookData,omitempty"`
	Details       *WebhookProbeDetail `json:"details,omitempty"`
}

// WebhookProbeDetail carries diagnostics for a failed probe.
type WebhookProbeDetail struct {
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message"`
	Status     int         `json:"status,omitempty"`
	StatusText string      `json:"statusText,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// SubmitRegistrationResponse mirrors the relay's success body as seen by clients.
type SubmitRegistrationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RelayErrorResponse mirrors the relay's failure body as seen by clients.
type RelayErrorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missingFields,omitempty"`
}
