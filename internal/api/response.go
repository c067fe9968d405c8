// Package api exposes the HTTP surface of the service: meeting endpoints,
// the SSE transcript stream, and health.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/meetstream/internal/apperrors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the structured error fields.
type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// RespondWithError inspects err: an *apperrors.AppError yields its status and
// structured body; anything else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if appErr := apperrors.AsAppError(err); appErr != nil {
		c.JSON(apperrors.HTTPStatus(appErr), ErrorResponse{Error: ErrorBody{
			Code:      string(appErr.Code),
			Message:   appErr.Message,
			Retryable: appErr.Retryable,
			Details:   appErr.Details,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Code:    string(apperrors.ErrCodeInternal),
		Message: "Internal server error",
	}})
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondCreated sends a 201 response wrapping data.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}
