package httpserver

import (
	"errors"
	"net/http"

	"carbonpay/internal/domain"
	exportsvc "carbonpay/internal/service/export"
	onboardingsvc "carbonpay/internal/service/onboarding"
	purchasesvc "carbonpay/internal/service/purchase"
	sessionsvc "carbonpay/internal/service/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, purchasesvc.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, sessionsvc.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, onboardingsvc.ErrTransitionInFlight),
		errors.Is(err, onboardingsvc.ErrAlreadySubmitted),
		errors.Is(err, purchasesvc.ErrWrongState):
		return http.StatusConflict
	case errors.Is(err, onboardingsvc.ErrStepInvalid),
		errors.Is(err, onboardingsvc.ErrEarlierStepInvalid),
		errors.Is(err, onboardingsvc.ErrAtFirstStep),
		errors.Is(err, onboardingsvc.ErrUnknownField),
		errors.Is(err, onboardingsvc.ErrInvalidValue),
		errors.Is(err, purchasesvc.ErrNoSelection),
		errors.Is(err, exportsvc.ErrUnsupportedFormat),
		errors.Is(err, sessionsvc.ErrInvalidWallet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// their text is not exposed.
func (h *handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, status, "internal error")
		return
	}
	writeError(c, status, err.Error())
}

// failWith is fail with an extra payload, for state machines whose state the
// client should re-render even when the action was rejected.
func (h *handlers) failWith(c *gin.Context, err error, key string, state any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error", key: state})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), key: state})
}
