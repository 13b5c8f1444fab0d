package handlers

import (
	"net/http"

	"repairright/utils"

	"github.com/gin-gonic/gin"
)

// Welcome handles GET /.
func Welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to RepairRight API!")
}

// Health handles GET /health with the last snapshot taken by the health monitor.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
