package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"repairright/utils"

	"github.com/gin-gonic/gin"
)

// Timeout puts a deadline on the request context. Handlers pass the context to Mongo
// and Redis; if the deadline passes before anything is written the caller gets 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			utils.JSONError(c, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
		}
	}
}
