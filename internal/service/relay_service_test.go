package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/registration-relay/internal/models"
	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
)

func samplePayload() models.RegistrationPayload {
	return models.RegistrationPayload{
		FullName:     "Asha Verma",
		GuardianName: "Ravi Verma",
		ClassGrade:   "7th Grade",
		Language:     "Hindi",
		Location:     "Pune",
		EmailAddress: "asha@example.com",
		Password:     "secret1",
	}
}

func newTestRelay(t *testing.T, url string, timeout time.Duration, logger *zap.Logger) (*RelayService, *MetricsService) {
	t.Helper()
	metrics := NewMetricsService()
	svc := NewRelayService(RelayConfig{WebhookURL: url, Timeout: timeout}, validator.New(), logger, metrics)
	return svc, metrics
}

func TestForwardSuccessEmbedsJSONBody(t *testing.T) {
	var got models.RegistrationPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	svc, metrics := newTestRelay(t, server.URL, time.Second, nil)
	svc.client = server.Client()

	res, err := svc.Forward(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "Registration submitted successfully", res.Message)
	assert.Equal(t, http.StatusOK, res.UpstreamStatus)
	assert.NotEmpty(t, res.SubmissionID)
	assert.Equal(t, json.RawMessage(`{"ok":true}`), res.Data)
	assert.Equal(t, samplePayload(), got)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(OutcomeSuccess)))
}

func TestForwardSuccessKeepsTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Workflow was started"))
	}))
	t.Cleanup(server.Close)

	svc, _ := newTestRelay(t, server.URL, time.Second, nil)
	res, err := svc.Forward(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "Workflow was started", res.Data)
}

func TestForwardMissingFieldsSkipsWebhook(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	svc, _ := newTestRelay(t, server.URL, time.Second, nil)

	payload := samplePayload()
	payload.EmailAddress = ""
	_, err := svc.Forward(context.Background(), payload)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Missing required fields", appErr.Message)
	assert.Equal(t, []string{"emailAddress"}, appErr.MissingFields)
	assert.False(t, called)

	_, err = svc.Forward(context.Background(), models.RegistrationPayload{Language: "English", FullName: "A"})
	assert.Equal(t, []string{"guardianName", "classGrade", "location", "emailAddress", "password"}, appErrors.FromError(err).MissingFields)
}

func TestForwardUpstreamStatusMapping(t *testing.T) {
	tests := []struct {
		upstream int
		status   int
		message  string
	}{
		{upstream: http.StatusBadRequest, status: http.StatusBadRequest, message: "Invalid data submitted. Please check your information."},
		{upstream: http.StatusNotFound, status: http.StatusBadGateway, message: "Registration service not found. Please contact support."},
		{upstream: http.StatusInternalServerError, status: http.StatusBadGateway, message: "External server error. Please try again later."},
		{upstream: http.StatusServiceUnavailable, status: http.StatusBadGateway, message: "External server error. Please try again later."},
		{upstream: http.StatusUnauthorized, status: http.StatusInternalServerError, message: "Registration failed: HTTP error! status: 401. Please try again."},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.upstream), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.upstream)
				_, _ = w.Write([]byte(`{"message":"internal webhook detail"}`))
			}))
			t.Cleanup(server.Close)

			svc, _ := newTestRelay(t, server.URL, time.Second, nil)
			_, err := svc.Forward(context.Background(), samplePayload())
			appErr := appErrors.FromError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.message, appErr.Message)
			assert.NotContains(t, appErr.Message, "internal webhook detail")
		})
	}
}

func TestForwardTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	svc, _ := newTestRelay(t, server.URL, 50*time.Millisecond, nil)
	_, err := svc.Forward(context.Background(), samplePayload())
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusRequestTimeout, appErr.Status)
	assert.Equal(t, "Request timeout. Please try again.", appErr.Message)
}

func TestForwardUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc, _ := newTestRelay(t, url, time.Second, nil)
	_, err := svc.Forward(context.Background(), samplePayload())
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.Equal(t, "Unable to connect to registration service. Please try again later.", appErr.Message)
}

func TestForwardLogsRedactPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	svc, _ := newTestRelay(t, server.URL, time.Second, zap.New(core))

	_, err := svc.Forward(context.Background(), samplePayload())
	require.Error(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		encoded, encErr := json.Marshal(entry.ContextMap())
		require.NoError(t, encErr)
		assert.NotContains(t, string(encoded), samplePayload().Password)
	}
	failures := logs.FilterMessage("registration relay failed").All()
	require.Len(t, failures, 1)
	payload, ok := failures[0].ContextMap()["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", payload["password"])
	assert.Equal(t, "asha@example.com", payload["emailAddress"])
}

func TestForwardLogsRedactEchoedUpstreamBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"workflow failed","input":` + string(body) + `}`))
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	svc, _ := newTestRelay(t, server.URL, time.Second, zap.New(core))

	_, err := svc.Forward(context.Background(), samplePayload())
	require.Error(t, err)

	for _, entry := range logs.All() {
		encoded, encErr := json.Marshal(entry.ContextMap())
		require.NoError(t, encErr)
		assert.NotContains(t, string(encoded), samplePayload().Password, "entry %q", entry.Message)
	}

	failures := logs.FilterMessage("registration relay failed").All()
	require.Len(t, failures, 1)
	upstream, ok := failures[0].ContextMap()["upstream_body"].(string)
	require.True(t, ok)
	var echoed struct {
		Error string            `json:"error"`
		Input map[string]string `json:"input"`
	}
	require.NoError(t, json.Unmarshal([]byte(upstream), &echoed))
	assert.Equal(t, "workflow failed", echoed.Error)
	assert.Equal(t, "[REDACTED]", echoed.Input["password"])
	assert.Equal(t, "asha@example.com", echoed.Input["emailAddress"])
}

func TestForwardLogsOnlyLengthOfTextUpstreamBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("cannot process password=secret1"))
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	svc, _ := newTestRelay(t, server.URL, time.Second, zap.New(core))

	_, err := svc.Forward(context.Background(), samplePayload())
	require.Error(t, err)

	failures := logs.FilterMessage("registration relay failed").All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.NotContains(t, fields, "upstream_body")
	assert.EqualValues(t, len("cannot process password=secret1"), fields["upstream_body_bytes"])
}

func TestNewRelayServiceLeavesSharedValidatorUntouched(t *testing.T) {
	shared := validator.New()
	svc := NewRelayService(RelayConfig{WebhookURL: "http://127.0.0.1:1/webhook", Timeout: time.Second}, shared, nil, nil)

	_, err := svc.Forward(context.Background(), models.RegistrationPayload{})
	assert.Equal(t, models.PayloadFields, appErrors.FromError(err).MissingFields)

	type other struct {
		DisplayName string `json:"displayName" validate:"required"`
	}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, shared.Struct(other{}), &verrs)
	assert.Equal(t, "DisplayName", verrs[0].Field(), "caller's field naming must not change")
}

func TestProbeSendsSampleRegistration(t *testing.T) {
	var got models.RegistrationPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"received":true}`))
	}))
	t.Cleanup(server.Close)

	svc, _ := newTestRelay(t, server.URL, time.Second, nil)
	res := svc.Probe(context.Background())
	assert.True(t, res.Success)
	assert.Equal(t, "Webhook test successful", res.Message)
	assert.Equal(t, http.StatusOK, res.WebhookStatus)
	assert.Equal(t, models.SampleRegistration(), got)
}

func TestProbeReportsFailureDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"webhook not registered"}`))
	}))
	t.Cleanup(server.Close)

	svc, _ := newTestRelay(t, server.URL, time.Second, nil)
	res := svc.Probe(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "Webhook test failed", res.Error)
	require.NotNil(t, res.Details)
	assert.Equal(t, http.StatusNotFound, res.Details.Status)
	assert.Equal(t, "Not Found", res.Details.StatusText)
	assert.Equal(t, appErrors.ErrUpstreamNotFound.Code, res.Details.Code)
	assert.True(t, strings.Contains(res.Details.Message, "404"))
}
