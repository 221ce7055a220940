package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/landgis/api/internal/errors"
	"github.com/landgis/api/internal/middleware"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/services"
)

// ConfigHandler handles attribute-catalog HTTP requests.
type ConfigHandler struct {
	service services.CatalogService
}

// NewConfigHandler creates a new ConfigHandler instance.
func NewConfigHandler(service services.CatalogService) *ConfigHandler {
	return &ConfigHandler{
		service: service,
	}
}

// UpsertConfigRequest represents the body for the upsert endpoint.
type UpsertConfigRequest struct {
	AttributeKey   string          `json:"attributeKey" binding:"required"`
	DisplayName    string          `json:"displayName" binding:"required"`
	DisplayOrder   int             `json:"displayOrder"`
	VisibleInTable bool            `json:"visibleInTable"`
	VisibleRoles   []string        `json:"visibleRoles"`
	FormatType     string          `json:"formatType"`
	FormatOptions  json.RawMessage `json:"formatOptions"`
}

// UpdateConfigRequest represents the body for the partial-update endpoint.
// All fields are optional; absent fields keep their stored value.
type UpdateConfigRequest struct {
	DisplayName    *string          `json:"displayName"`
	DisplayOrder   *int             `json:"displayOrder"`
	VisibleInTable *bool            `json:"visibleInTable"`
	VisibleRoles   *[]string        `json:"visibleRoles"`
	FormatType     *string          `json:"formatType"`
	FormatOptions  *json.RawMessage `json:"formatOptions"`
}

// ReorderRequest represents the body for the batch-reorder endpoint.
type ReorderRequest struct {
	Updates []models.OrderUpdate `json:"updates" binding:"required"`
}

// ConfigListResponse represents the full catalog response.
type ConfigListResponse struct {
	Configs []models.AttributeConfig `json:"configs"`
	Count   int                      `json:"count"`
}

// ProjectedConfigResponse represents the role-filtered catalog view.
type ProjectedConfigResponse struct {
	Configs []models.ProjectedConfig `json:"configs"`
	Count   int                      `json:"count"`
	Role    string                   `json:"role"`
}

// List handles GET /api/v1/attribute-configs. With ?projected=true the
// catalog is filtered and shaped for the caller's role.
func (h *ConfigHandler) List(c *gin.Context) {
	configs, err := h.service.List(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list attribute configs", err)
		return
	}

	if c.Query("projected") == "true" {
		role := middleware.GetRole(c)
		projected := services.ProjectConfigs(configs, role)
		c.JSON(http.StatusOK, ProjectedConfigResponse{
			Configs: projected,
			Count:   len(projected),
			Role:    role,
		})
		return
	}

	c.JSON(http.StatusOK, ConfigListResponse{
		Configs: configs,
		Count:   len(configs),
	})
}

// Upsert handles POST /api/v1/attribute-configs.
func (h *ConfigHandler) Upsert(c *gin.Context) {
	var req UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	cfg := models.AttributeConfig{
		AttributeKey:   req.AttributeKey,
		DisplayName:    req.DisplayName,
		DisplayOrder:   req.DisplayOrder,
		VisibleInTable: req.VisibleInTable,
		VisibleRoles:   req.VisibleRoles,
		FormatType:     models.FormatType(req.FormatType),
		FormatOptions:  req.FormatOptions,
	}

	saved, err := h.service.Upsert(c.Request.Context(), cfg)
	if err != nil {
		if errors.Is(err, services.ErrEmptyKey) || errors.Is(err, services.ErrMissingField) || errors.Is(err, services.ErrInvalidFormatType) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to save attribute config", err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

// Update handles PATCH /api/v1/attribute-configs/:id.
func (h *ConfigHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid config id", nil)
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	update := models.ConfigUpdate{
		DisplayName:    req.DisplayName,
		DisplayOrder:   req.DisplayOrder,
		VisibleInTable: req.VisibleInTable,
		VisibleRoles:   req.VisibleRoles,
		FormatOptions:  req.FormatOptions,
	}
	if req.FormatType != nil {
		ft := models.FormatType(*req.FormatType)
		update.FormatType = &ft
	}

	updated, err := h.service.UpdateByID(c.Request.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConfigNotFound):
			apierrors.NotFound(c, "Attribute config not found")
		case errors.Is(err, services.ErrNoFieldsToUpdate), errors.Is(err, services.ErrInvalidFormatType):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to update attribute config", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/attribute-configs/:key. The catalog entry
// is removed; parcel documents keep the key until it is retired through
// the schema endpoints.
func (h *ConfigHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	if err := h.service.DeleteByKey(c.Request.Context(), key); err != nil {
		switch {
		case errors.Is(err, services.ErrConfigNotFound):
			apierrors.NotFound(c, "Attribute config not found")
		case errors.Is(err, services.ErrEmptyKey):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to delete attribute config", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attribute config deleted"})
}

// Reorder handles PUT /api/v1/attribute-configs/order.
func (h *ConfigHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	applied, err := h.service.BatchReorder(c.Request.Context(), req.Updates)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to reorder attribute configs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Display order updated",
		"applied": applied,
	})
}
