package handlers

import (
	"net/http"

	"repairright/middleware"
	"repairright/models"
	"repairright/utils"

	"github.com/gin-gonic/gin"
)

// caller returns the authenticated identity or aborts with 401. Routes behind
// middleware.BearerAuth always have one.
func caller(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthorized: No token provided")
		return models.Identity{}, false
	}
	return id, true
}
