package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/session"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

const (
	// ContextKeySessionID is the context key for storing the session ID.
	ContextKeySessionID = "session_id"
	// ContextKeySessionToken is the context key for storing the signed session token.
	ContextKeySessionToken = "session_token"
)

// SessionMiddleware resolves the caller's session from a bearer token, a token query
// parameter or the session cookie, in that order. Callers without a valid token get a
// fresh session and a cookie carrying it.
func SessionMiddleware(tokens *session.TokenConfig, cookieName string, ttl time.Duration, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c, cookieName)

		var sessionID string
		if raw != "" {
			id, err := session.ParseToken(tokens, raw)
			if err != nil {
				logger.Debug().Err(err).Msg("discarding session token")
			} else {
				sessionID = id
			}
		}

		if sessionID == "" {
			sessionID = utils.NewID()
			token, err := session.IssueToken(tokens, sessionID)
			if err != nil {
				logger.Error().Err(err).Msg("failed to issue session token")
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
				c.Abort()
				return
			}
			raw = token

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, token, int(ttl.Seconds()), "/", "", false, true)
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Set(ContextKeySessionToken, raw)

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
