package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
)

// SuccessBody is returned when the relay accepted a submission.
type SuccessBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorBody is the single-field failure contract shared by every relay endpoint.
type ErrorBody struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// JSON writes an arbitrary payload with caching disabled.
func JSON(c *gin.Context, status int, body interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}

// Success responds with HTTP 200 and the success envelope.
func Success(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, SuccessBody{Success: true, Message: message, Data: data})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	JSON(c, appErr.Status, ErrorBody{Error: appErr.Message, MissingFields: appErr.MissingFields})
}
