package handlers

import (
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

// ParcelHandler handles parcel-related HTTP requests.
type ParcelHandler struct {
	service services.ParcelService
}

// NewParcelHandler creates a new ParcelHandler instance.
func NewParcelHandler(service services.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		service: service,
	}
}

// CreateParcelRequest represents the body for the create-parcel endpoint.
type CreateParcelRequest struct {
	Title       string            `json:"title" binding:"required"`
	Type        string            `json:"type" binding:"required"`
	Price       float64           `json:"price"`
	Area        float64           `json:"area"`
	Location    string            `json:"location" binding:"required"`
	Coordinates [2]float64        `json:"coordinates" binding:"required"`
	Segment     string            `json:"segment" binding:"required"`
	Status      string            `json:"status" binding:"required"`
	Boundary    *models.Boundary  `json:"boundary"`
	Attributes  models.Attributes `json:"attributes"`
}

// ReplaceAttributesRequest represents the body for the replace-attributes
// endpoint.
type ReplaceAttributesRequest struct {
	Attributes models.Attributes `json:"attributes"`
}

// ParcelData represents one parcel in API responses. Coordinates are
// exposed as [lat, lng], the shape the map client consumes.
type ParcelData struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Price       float64           `json:"price"`
	Area        float64           `json:"area"`
	Location    string            `json:"location"`
	Coordinates [2]float64        `json:"coordinates"`
	Segment     string            `json:"segment"`
	Status      string            `json:"status"`
	Boundary    *models.Boundary  `json:"boundary,omitempty"`
	Attributes  models.Attributes `json:"attributes"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// ParcelListResponse represents the response for the list endpoint.
type ParcelListResponse struct {
	Parcels []ParcelData `json:"parcels"`
	Count   int          `json:"count"`
}

// AttributesResponse represents the attribute document of one parcel.
type AttributesResponse struct {
	ID         int64             `json:"id"`
	Attributes models.Attributes `json:"attributes"`
}

// List handles GET /api/v1/parcels.
func (h *ParcelHandler) List(c *gin.Context) {
	parcels, err := h.service.ListParcels(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list parcels", err)
		return
	}

	data := make([]ParcelData, 0, len(parcels))
	for i := range parcels {
		data = append(data, mapParcelToDTO(&parcels[i]))
	}

	c.JSON(http.StatusOK, ParcelListResponse{
		Parcels: data,
		Count:   len(data),
	})
}

// Create handles POST /api/v1/parcels.
func (h *ParcelHandler) Create(c *gin.Context) {
	var req CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	parcel := &models.Parcel{
		Title:      req.Title,
		Type:       req.Type,
		Price:      req.Price,
		Area:       req.Area,
		Location:   req.Location,
		Latitude:   req.Coordinates[0],
		Longitude:  req.Coordinates[1],
		Segment:    req.Segment,
		Status:     req.Status,
		Boundary:   req.Boundary,
		Attributes: req.Attributes,
	}

	created, err := h.service.CreateParcel(c.Request.Context(), parcel)
	if err != nil {
		if errors.Is(err, services.ErrMissingField) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to create parcel", err)
		return
	}

	c.JSON(http.StatusCreated, mapParcelToDTO(created))
}

// Delete handles DELETE /api/v1/parcels/:id.
func (h *ParcelHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteParcel(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "Parcel not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete parcel", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parcel deleted"})
}

// GetAttributes handles GET /api/v1/parcels/:id/attributes.
func (h *ParcelHandler) GetAttributes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	attrs, err := h.service.GetAttributes(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "Parcel not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to get attributes", err)
		return
	}

	c.JSON(http.StatusOK, AttributesResponse{
		ID:         id,
		Attributes: attrs,
	})
}

// ReplaceAttributes handles PUT /api/v1/parcels/:id/attributes.
func (h *ParcelHandler) ReplaceAttributes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ReplaceAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing replace-attributes request", map[string]interface{}{
			"parcel_id":       id,
			"attribute_count": len(req.Attributes),
		})
	}

	stored, err := h.service.ReplaceAttributes(c.Request.Context(), id, req.Attributes)
	if err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "Parcel not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to replace attributes", err)
		return
	}

	c.JSON(http.StatusOK, AttributesResponse{
		ID:         id,
		Attributes: stored,
	})
}

// parseIDParam parses the :id path parameter, writing a 400 response and
// returning ok=false when it is not a positive integer.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid parcel id", nil)
		return 0, false
	}
	return id, true
}

// mapParcelToDTO converts a Parcel model to its response DTO.
func mapParcelToDTO(parcel *models.Parcel) ParcelData {
	return ParcelData{
		ID:          parcel.ID,
		Title:       parcel.Title,
		Type:        parcel.Type,
		Price:       parcel.Price,
		Area:        parcel.Area,
		Location:    parcel.Location,
		Coordinates: parcel.Coordinates(),
		Segment:     parcel.Segment,
		Status:      parcel.Status,
		Boundary:    parcel.Boundary,
		Attributes:  parcel.Attributes,
		CreatedAt:   parcel.CreatedAt.Format(timeFormat),
		UpdatedAt:   parcel.UpdatedAt.Format(timeFormat),
	}
}

// timeFormat is the timestamp layout used in API responses.
const timeFormat = "2006-01-02T15:04:05Z07:00"
