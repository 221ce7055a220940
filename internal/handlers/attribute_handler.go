package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/landgis/api/internal/errors"
	"github.com/landgis/api/internal/middleware"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/services"
)

// AttributeHandler handles structural attribute changes that span every
// parcel document and the configuration catalog.
type AttributeHandler struct {
	service services.SchemaService
}

// NewAttributeHandler creates a new AttributeHandler instance.
func NewAttributeHandler(service services.SchemaService) *AttributeHandler {
	return &AttributeHandler{
		service: service,
	}
}

// RenameAttributeRequest represents the body for the rename endpoint.
type RenameAttributeRequest struct {
	OldKey string `json:"oldKey" binding:"required"`
	NewKey string `json:"newKey" binding:"required"`
}

// AddAttributeRequest represents the body for the add endpoint.
type AddAttributeRequest struct {
	Key        string `json:"key" binding:"required"`
	FormatType string `json:"formatType"`
}

// SyncCatalogRequest represents the body for the catalog-sync endpoint.
type SyncCatalogRequest struct {
	Configs []models.AttributeConfig `json:"configs" binding:"required"`
}

// Rename handles POST /api/v1/attributes/rename.
func (h *AttributeHandler) Rename(c *gin.Context) {
	var req RenameAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing attribute rename", map[string]interface{}{
			"old_key": req.OldKey,
			"new_key": req.NewKey,
		})
	}

	result, err := h.service.RenameAttribute(c.Request.Context(), req.OldKey, req.NewKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyKey), errors.Is(err, services.ErrSameKey):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrKeyConflict):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalServerError(c, "Failed to rename attribute", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Attribute renamed",
		"oldKey":          req.OldKey,
		"newKey":          req.NewKey,
		"affectedParcels": result.AffectedParcels,
		"affectedConfigs": result.AffectedConfigs,
	})
}

// Add handles POST /api/v1/attributes.
func (h *AttributeHandler) Add(c *gin.Context) {
	var req AddAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	count, err := h.service.AddAttribute(c.Request.Context(), req.Key, models.FormatType(req.FormatType))
	if err != nil {
		if errors.Is(err, services.ErrEmptyKey) || errors.Is(err, services.ErrInvalidFormatType) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to add attribute", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Attribute added",
		"key":             req.Key,
		"affectedParcels": count,
	})
}

// Delete handles DELETE /api/v1/attributes/:key.
func (h *AttributeHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	count, err := h.service.DeleteAttribute(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrEmptyKey) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to delete attribute", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Attribute deleted",
		"key":             key,
		"affectedParcels": count,
	})
}

// Sync handles POST /api/v1/attribute-configs/sync.
func (h *AttributeHandler) Sync(c *gin.Context) {
	var req SyncCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	written, err := h.service.SyncCatalog(c.Request.Context(), req.Configs)
	if err != nil {
		if errors.Is(err, services.ErrEmptyKey) || errors.Is(err, services.ErrInvalidFormatType) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to sync attribute configs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog synced",
		"written": written,
	})
}
