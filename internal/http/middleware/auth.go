// README: Optional Firebase ID-token auth; callers without a token stay anonymous.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trailmate/internal/infra"
)

const callerUIDKey = "caller_uid"

// Auth verifies a Bearer token when one is sent. A nil verifier disables auth.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if verifier == nil || header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		id, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerUIDKey, id.UID)
		c.Next()
	}
}

// CallerUID returns the verified uid, or "" for anonymous callers.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}
