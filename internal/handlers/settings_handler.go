package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/landgis/api/internal/errors"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/services"
)

// SettingsHandler handles application-settings HTTP requests.
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// EditPermissionsRequest represents the body for the save endpoint.
type EditPermissionsRequest struct {
	AllowedRoles []string `json:"allowedRoles" binding:"required"`
}

// GetEditPermissions handles GET /api/v1/settings/edit-permissions.
func (h *SettingsHandler) GetEditPermissions(c *gin.Context) {
	perms, err := h.service.GetEditPermissions(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to get edit permissions", err)
		return
	}

	c.JSON(http.StatusOK, perms)
}

// SaveEditPermissions handles PUT /api/v1/settings/edit-permissions.
func (h *SettingsHandler) SaveEditPermissions(c *gin.Context) {
	var req EditPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	perms := models.EditPermissions{AllowedRoles: req.AllowedRoles}
	if err := h.service.SaveEditPermissions(c.Request.Context(), perms); err != nil {
		apierrors.InternalServerError(c, "Failed to save edit permissions", err)
		return
	}

	c.JSON(http.StatusOK, perms)
}
