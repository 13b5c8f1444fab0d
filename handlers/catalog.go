package handlers

import (
	"net/http"

	"repairright/models"
	catalogService "repairright/services/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the /services endpoints.
type CatalogHandler struct {
	CatalogSvc catalogService.CatalogService
}

// ListServices handles GET /services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var query models.ServiceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query")
		return
	}
	services, err := h.CatalogSvc.ListServices(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetService handles GET /services/:id.
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.CatalogSvc.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch service")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// MyServices handles GET /my-services.
func (h *CatalogHandler) MyServices(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	services, err := h.CatalogSvc.ListProviderServices(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateService handles POST /services.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var in models.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		getLogger(c).Info("CreateService: invalid body", zap.Error(err))
		badRequest(c, "name, description and area are required; price must not be negative")
		return
	}
	svc, err := h.CatalogSvc.CreateService(c.Request.Context(), in, id)
	if err != nil {
		respondError(c, err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"acknowledged": true,
		"insertedId":   svc.ID,
	})
}

// UpdateService handles PUT /services/:id.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var update models.ServiceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	res, err := h.CatalogSvc.UpdateService(c.Request.Context(), c.Param("id"), update, id)
	if err != nil {
		respondError(c, err, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged":  true,
		"matchedCount":  res.Matched,
		"modifiedCount": res.Modified,
	})
}

// DeleteService handles DELETE /services/:id.
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	res, err := h.CatalogSvc.DeleteService(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		respondError(c, err, "Failed to delete service")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged": true,
		"deletedCount": res.Deleted,
	})
}
