package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"servicehub/internal/apperr"
	"servicehub/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code,omitempty" example:"INVALID_STATE"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RespondError maps an engine error kind to its HTTP status. Internal errors are logged and hidden.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	var appErr *apperr.Error
	if kind == apperr.KindInternal || !errors.As(err, &appErr) {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error", Code: string(apperr.KindInternal)})
		return
	}

	c.JSON(status, ErrorResponse{Error: appErr.Message, Code: string(kind)})
}
