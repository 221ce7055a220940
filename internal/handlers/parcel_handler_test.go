package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/landgis/api/internal/logger"
	"github.com/landgis/api/internal/middleware"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/services"
)

// setupParcelTestRouter creates a test router with middleware and parcel routes.
func setupParcelTestRouter(handler *ParcelHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Role())

	v1 := router.Group("/api/v1")
	{
		parcels := v1.Group("/parcels")
		{
			parcels.GET("", handler.List)
			parcels.POST("", handler.Create)
			parcels.DELETE("/:id", handler.Delete)
			parcels.GET("/:id/attributes", handler.GetAttributes)
			parcels.PUT("/:id/attributes", handler.ReplaceAttributes)
		}
	}

	return router
}

func TestParcelList(t *testing.T) {
	mockService := new(MockParcelService)
	router := setupParcelTestRouter(NewParcelHandler(mockService))

	parcels := []models.Parcel{
		{
			ID:        1,
			Title:     "Lakeside lot",
			Type:      "land",
			Location:  "Green Valley",
			Segment:   "premium",
			Status:    "available",
			Latitude:  50.45,
			Longitude: 30.52,
			Attributes: models.Attributes{
				"road_access": models.BoolValue(true),
			},
		},
	}
	mockService.On("ListParcels", mock.Anything).Return(parcels, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ParcelListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "Lakeside lot", response.Parcels[0].Title)
	assert.Equal(t, [2]float64{50.45, 30.52}, response.Parcels[0].Coordinates)
	assert.True(t, response.Parcels[0].Attributes["road_access"].Equal(models.BoolValue(true)))
	mockService.AssertExpectations(t)
}

func TestParcelCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		stored := &models.Parcel{
			ID:         3,
			Title:      "Hillside plot",
			Type:       "land",
			Location:   "North Ridge",
			Segment:    "standard",
			Status:     "available",
			Latitude:   49.8,
			Longitude:  24.0,
			Attributes: models.Attributes{},
		}
		mockService.On("CreateParcel", mock.Anything, mock.MatchedBy(func(p *models.Parcel) bool {
			return p.Title == "Hillside plot" && p.Latitude == 49.8 && p.Longitude == 24.0
		})).Return(stored, nil)

		body := `{
			"title": "Hillside plot",
			"type": "land",
			"location": "North Ridge",
			"coordinates": [49.8, 24.0],
			"segment": "standard",
			"status": "available"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var response ParcelData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(3), response.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("missing required fields", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		body := `{"title": "No location"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateParcel")
	})
}

func TestParcelDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		mockService.On("DeleteParcel", mock.Anything, int64(7)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/parcels/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		mockService.On("DeleteParcel", mock.Anything, int64(99)).Return(services.ErrParcelNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/parcels/99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/parcels/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "DeleteParcel")
	})
}

func TestParcelGetAttributes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		doc := models.Attributes{
			"zoning":    models.StringValue("residential"),
			"utilities": models.ListValue(models.StringValue("water")),
		}
		mockService.On("GetAttributes", mock.Anything, int64(4)).Return(doc, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels/4/attributes", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response AttributesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(4), response.ID)
		assert.True(t, response.Attributes["zoning"].Equal(models.StringValue("residential")))
	})

	t.Run("not found", func(t *testing.T) {
		mockService := new(MockParcelService)
		router := setupParcelTestRouter(NewParcelHandler(mockService))

		mockService.On("GetAttributes", mock.Anything, int64(4)).Return(nil, services.ErrParcelNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels/4/attributes", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestParcelReplaceAttributes(t *testing.T) {
	mockService := new(MockParcelService)
	router := setupParcelTestRouter(NewParcelHandler(mockService))

	doc := models.Attributes{"zoning": models.StringValue("commercial")}
	mockService.On("ReplaceAttributes", mock.Anything, int64(4), doc).Return(doc, nil)

	body := `{"attributes": {"zoning": "commercial"}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/parcels/4/attributes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response AttributesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Attributes["zoning"].Equal(models.StringValue("commercial")))
	mockService.AssertExpectations(t)
}

func TestParcelReplaceAttributes_RejectsNestedObject(t *testing.T) {
	mockService := new(MockParcelService)
	router := setupParcelTestRouter(NewParcelHandler(mockService))

	body := `{"attributes": {"zoning": {"nested": true}}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/parcels/4/attributes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ReplaceAttributes")
}
