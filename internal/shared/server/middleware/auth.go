package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/shared/server/respond"
)

const sessionIDKey = "sessionId"

// Identity requires the X-Guest-Id header and stores the session ID in
// context. The demo has no accounts; every browser session is a guest.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if path == "/api/v1/health" || path == "/api/v1/metrics" {
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(sessionIDKey, "guest:"+guestID)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the identity middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
