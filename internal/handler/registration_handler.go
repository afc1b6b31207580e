package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registration-relay/internal/dto"
	"github.com/noah-isme/registration-relay/internal/models"
	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
	"github.com/noah-isme/registration-relay/pkg/response"
)

type relayService interface {
	Forward(ctx context.Context, payload models.RegistrationPayload) (*dto.RelayResult, error)
	Probe(ctx context.Context) *dto.WebhookProbeResult
}

// RegistrationHandler exposes the registration relay endpoints.
type RegistrationHandler struct {
	service relayService
}

// NewRegistrationHandler builds a new handler.
func NewRegistrationHandler(service relayService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Submit godoc
// @Summary Submit a registration
// @Description Validates the registration and forwards it to the workflow webhook
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body models.RegistrationPayload true "Registration payload"
// @Success 200 {object} response.SuccessBody
// @Failure 400 {object} response.ErrorBody
// @Failure 405 {object} response.ErrorBody
// @Failure 408 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Failure 502 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /api/submit-registration [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		response.Error(c, appErrors.ErrMethodNotAllowed)
		return
	}

	var payload models.RegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Message))
		return
	}

	result, err := h.service.Forward(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result.Message, result.Data)
}

// TestWebhook godoc
// @Summary Probe the workflow webhook
// @Description Sends a fixed sample registration to the webhook and reports the outcome
// @Tags Registration
// @Produce json
// @Success 200 {object} dto.WebhookProbeResult
// @Failure 405 {object} response.ErrorBody
// @Failure 500 {object} dto.WebhookProbeResult
// @Router /api/test-webhook [get]
func (h *RegistrationHandler) TestWebhook(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		response.Error(c, appErrors.ErrMethodNotAllowed)
		return
	}

	result := h.service.Probe(c.Request.Context())
	if !result.Success {
		response.JSON(c, http.StatusInternalServerError, result)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
