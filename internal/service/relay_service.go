package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/registration-relay/internal/dto"
	"github.com/noah-isme/registration-relay/internal/models"
	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
	"github.com/noah-isme/registration-relay/pkg/logger"
)

const (
	relaySuccessMessage = "Registration submitted successfully"
	probeSuccessMessage = "Webhook test successful"
	probeFailureMessage = "Webhook test failed"

	maxUpstreamBody = 1 << 20
)

// RelayConfig holds the injected webhook settings.
type RelayConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// RelayService validates registration payloads and forwards them to the webhook.
type RelayService struct {
	cfg       RelayConfig
	client    *http.Client
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewRelayService constructs a RelayService instance. The validator is only read from,
// so it may be shared with other services.
func NewRelayService(cfg RelayConfig, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *RelayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &RelayService{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// Forward re-validates the payload and relays it to the webhook exactly once.
func (s *RelayService) Forward(ctx context.Context, payload models.RegistrationPayload) (*dto.RelayResult, error) {
	if missing := s.missingFields(payload); len(missing) > 0 {
		s.metrics.RecordSubmission(OutcomeRejected)
		return nil, appErrors.MissingFields(missing)
	}

	submissionID := uuid.NewString()
	log := s.logger.With(zap.String("submission_id", submissionID))
	log.Debug("forwarding registration", logger.RedactedObject("payload", payload.Map()))

	status, body, err := s.post(ctx, "submit", payload)
	if err == nil && !isSuccess(status) {
		err = &UpstreamStatusError{StatusCode: status, Body: body}
	}
	if err != nil {
		appErr := classifyForwardError(err)
		s.metrics.RecordSubmission(strings.ToLower(appErr.Code))
		log.Error("registration relay failed",
			zap.Error(err),
			zap.Int("upstream_status", status),
			logger.RedactedJSON("upstream_body", body),
			zap.Int("status", appErr.Status),
			logger.RedactedObject("payload", payload.Map()),
		)
		return nil, appErr
	}

	s.metrics.RecordSubmission(OutcomeSuccess)
	log.Info("registration relayed", zap.Int("upstream_status", status))

	return &dto.RelayResult{
		SubmissionID:   submissionID,
		Message:        relaySuccessMessage,
		Data:           decodeBody(body),
		UpstreamStatus: status,
	}, nil
}

// Probe sends the fixed sample registration and reports how the webhook answered.
func (s *RelayService) Probe(ctx context.Context) *dto.WebhookProbeResult {
	sample := models.SampleRegistration()
	s.logger.Info("testing webhook", logger.RedactedObject("payload", sample.Map()))

	status, body, err := s.post(ctx, "probe", sample)
	if err == nil && isSuccess(status) {
		s.logger.Info("webhook test successful", zap.Int("upstream_status", status))
		return &dto.WebhookProbeResult{
			Success:       true,
			Message:       probeSuccessMessage,
			WebhookStatus: status,
			WebhookData:   decodeBody(body),
		}
	}

	detail := &dto.WebhookProbeDetail{Status: status}
	if status > 0 {
		detail.StatusText = http.StatusText(status)
		detail.Data = decodeBody(body)
	}
	if err == nil {
		err = &UpstreamStatusError{StatusCode: status, Body: body}
	}
	appErr := classifyForwardError(err)
	detail.Code = appErr.Code
	detail.Message = innerMessage(err)

	s.logger.Error("webhook test failed", zap.Error(err), zap.Int("upstream_status", status))
	return &dto.WebhookProbeResult{Success: false, Error: probeFailureMessage, Details: detail}
}

func (s *RelayService) post(ctx context.Context, target string, payload models.RegistrationPayload) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveForward(target, 0, time.Since(start))
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	s.metrics.ObserveForward(target, resp.StatusCode, time.Since(start))
	if err != nil {
		return resp.StatusCode, body, fmt.Errorf("read webhook response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (s *RelayService) missingFields(payload models.RegistrationPayload) []string {
	err := s.validator.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append([]string(nil), models.PayloadFields...)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, payloadFieldNames[fe.StructField()])
	}
	return missing
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// decodeBody embeds JSON bodies as JSON and anything else as text.
func decodeBody(body []byte) interface{} {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}

// payloadFieldNames maps RegistrationPayload struct fields to their wire names.
var payloadFieldNames = func() map[string]string {
	typ := reflect.TypeOf(models.RegistrationPayload{})
	names := make(map[string]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		fld := typ.Field(i)
		names[fld.Name] = jsonFieldName(fld)
	}
	return names
}()

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
