package handlers

import (
	"repairright/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger set by middleware.RequestID.
func getLogger(c *gin.Context) *zap.Logger {
	return middleware.RequestLogger(c)
}
