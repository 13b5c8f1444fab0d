package middleware

import (
	"net/http"
	"strings"

	"repairright/models"
	"repairright/services/auth"
	"repairright/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// BearerAuth verifies the Authorization bearer token on every request and stores the
// caller's identity in the context. Missing tokens get 401, rejected ones 403.
func BearerAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthorized: No token provided")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthorized: No token provided")
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			RequestLogger(c).Info("token rejected", zap.Error(err))
			utils.JSONError(c, http.StatusForbidden, "INVALID_TOKEN", "Forbidden: Invalid or expired token")
			return
		}

		c.Set(identityKey, id)
		c.Set("callerEmail", id.Email)
		c.Next()
	}
}

// CurrentIdentity returns the identity BearerAuth stored, if any.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
