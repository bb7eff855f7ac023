package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"servitrack/internal/core/session"
	"servitrack/pkg/logger"
)

// Session middleware hydrates the session from a bearer token when one is
// presented. Requests without a token stay anonymous; invalid tokens are
// logged and treated as anonymous rather than rejected, because access
// control belongs to the external auth service.
func Session(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		sess, err := svc.Hydrate(token)
		if err != nil {
			logger.Debug(c.Request.Context(), "session hydration failed", "error", err)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(session.With(c.Request.Context(), sess))
		c.Next()
	}
}
