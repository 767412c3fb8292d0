package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bizboost/api/internal/repository"
	"bizboost/api/internal/service"
)

// respondError maps service failures onto the API's status codes. Anything
// unmapped is a server fault and gets logged with its real cause.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, service.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired"})
	case errors.Is(err, service.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
	case errors.Is(err, service.ErrProviderVerification):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google login failed"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Members only"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Account conflict detected"})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, repository.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrMailDispatch):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send verification email"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// validationMessage strips the sentinel prefix so the client sees only the
// human-readable part.
func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
