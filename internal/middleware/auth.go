package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bizboost/api/internal/models"
	"bizboost/api/internal/service"
)

// HeaderUserToken is the request header carrying the opaque session token.
const HeaderUserToken = "X-User-Token"

const contextUserKey = "current_user"

// SessionValidator resolves a presented token to an authenticated identity.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (models.User, error)
}

// Auth gates a route group on a valid session and attaches the resolved
// identity to the request context. All session failures answer 401; the
// specific kind only shows up in the logs.
func Auth(sessions SessionValidator, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderUserToken)

		user, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			message := "Invalid session"
			switch {
			case errors.Is(err, service.ErrNoSession):
				message = "No session"
			case errors.Is(err, service.ErrSessionExpired):
				message = "Session expired"
			case errors.Is(err, service.ErrInvalidSession):
			default:
				log.Error().Err(err).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("session validation failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
				return
			}

			log.Debug().Err(err).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.Writer.Header().Get(requestIDHeader)).
				Msg("request rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireMember rejects guests on member-only operations. This is a
// capability failure, distinct from the 401 authentication failures.
func RequireMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if user.Role == models.UserRoleGuest {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Members only"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(contextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
