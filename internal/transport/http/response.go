package http

import (
	"errors"
	"net/http"

	"gameshow-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// respondBadBody reports a body that could not be decoded. Decoders that
// reject a field report it as a *domain.ValidationError.
func respondBadBody(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Error: verr.Fields})
		return
	}
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: "invalid request body: " + err.Error()})
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(status, envelope{Success: false, Error: verr.Fields})
	case status == http.StatusInternalServerError:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message := "internal server error"
		if errors.Is(err, domain.ErrTemplateMissing) {
			message = err.Error()
		}
		c.JSON(status, envelope{Success: false, Message: message})
	default:
		c.JSON(status, envelope{Success: false, Message: err.Error()})
	}
}
