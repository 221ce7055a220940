package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/landgis/api/internal/logger"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/repository"
)

// Service-level errors
var (
	ErrParcelNotFound = errors.New("parcel not found")
	ErrMissingField   = errors.New("missing required field")
)

// requiredParcelFields are validated on creation; everything else about a
// parcel lives in the attributes document.
var requiredParcelFields = []string{"title", "type", "location", "segment", "status"}

// ParcelService defines business logic for parcel records and their
// attribute documents.
type ParcelService interface {
	// ListParcels returns all parcels with normalized attribute documents.
	ListParcels(ctx context.Context) ([]models.Parcel, error)

	// CreateParcel stores a new parcel with its caller-supplied initial
	// attributes (possibly empty).
	// Returns ErrMissingField when a required fixed column is empty.
	CreateParcel(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)

	// DeleteParcel removes one parcel.
	// Returns ErrParcelNotFound if no parcel has the given id.
	DeleteParcel(ctx context.Context, id int64) error

	// GetAttributes returns one parcel's attribute document.
	// Returns ErrParcelNotFound if no parcel has the given id.
	GetAttributes(ctx context.Context, id int64) (models.Attributes, error)

	// ReplaceAttributes fully overwrites one parcel's attribute document.
	// Returns ErrParcelNotFound if no parcel has the given id.
	ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error)
}

// parcelService is the concrete implementation of ParcelService.
type parcelService struct {
	repo repository.ParcelRepository
	log  *logger.Logger
}

// NewParcelService creates a new instance of ParcelService.
func NewParcelService(repo repository.ParcelRepository, log *logger.Logger) ParcelService {
	return &parcelService{
		repo: repo,
		log:  log,
	}
}

// ListParcels returns all parcels. Attribute documents are normalized on
// the way out to repair legacy double-encoded string artifacts.
func (s *parcelService) ListParcels(ctx context.Context) ([]models.Parcel, error) {
	parcels, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list parcels", err, nil)
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}

	for i := range parcels {
		parcels[i].Attributes = parcels[i].Attributes.Normalize()
	}

	s.log.Debug("Parcels listed", map[string]interface{}{
		"count": len(parcels),
	})

	return parcels, nil
}

// CreateParcel validates required fixed columns and stores the parcel.
func (s *parcelService) CreateParcel(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	fields := map[string]string{
		"title":    parcel.Title,
		"type":     parcel.Type,
		"location": parcel.Location,
		"segment":  parcel.Segment,
		"status":   parcel.Status,
	}
	for _, name := range requiredParcelFields {
		if fields[name] == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	if parcel.Attributes == nil {
		parcel.Attributes = models.Attributes{}
	}

	created, err := s.repo.Create(ctx, parcel)
	if err != nil {
		s.log.Error("Failed to create parcel", err, map[string]interface{}{
			"title": parcel.Title,
		})
		return nil, fmt.Errorf("failed to create parcel: %w", err)
	}

	s.log.Info("Parcel created", map[string]interface{}{
		"parcel_id":       created.ID,
		"title":           created.Title,
		"attribute_count": len(created.Attributes),
	})

	return created, nil
}

// DeleteParcel removes one parcel by id.
func (s *parcelService) DeleteParcel(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete parcel", err, map[string]interface{}{
			"parcel_id": id,
		})
		return fmt.Errorf("failed to delete parcel: %w", err)
	}

	if !deleted {
		return ErrParcelNotFound
	}

	s.log.Info("Parcel deleted", map[string]interface{}{
		"parcel_id": id,
	})

	return nil
}

// GetAttributes returns one parcel's attribute document.
func (s *parcelService) GetAttributes(ctx context.Context, id int64) (models.Attributes, error) {
	attrs, err := s.repo.GetAttributes(ctx, id)
	if err != nil {
		s.log.Error("Failed to get attributes", err, map[string]interface{}{
			"parcel_id": id,
		})
		return nil, fmt.Errorf("failed to get attributes: %w", err)
	}

	if attrs == nil {
		return nil, ErrParcelNotFound
	}

	return attrs.Normalize(), nil
}

// ReplaceAttributes fully overwrites one parcel's attribute document.
func (s *parcelService) ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error) {
	if attrs == nil {
		attrs = models.Attributes{}
	}

	stored, err := s.repo.ReplaceAttributes(ctx, id, attrs)
	if err != nil {
		s.log.Error("Failed to replace attributes", err, map[string]interface{}{
			"parcel_id": id,
		})
		return nil, fmt.Errorf("failed to replace attributes: %w", err)
	}

	if stored == nil {
		return nil, ErrParcelNotFound
	}

	s.log.Info("Attributes replaced", map[string]interface{}{
		"parcel_id":       id,
		"attribute_count": len(stored),
	})

	return stored, nil
}
