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
	ErrConfigNotFound    = errors.New("attribute config not found")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidFormatType = errors.New("invalid format type")
)

// CatalogService defines business logic for the attribute configuration
// catalog.
type CatalogService interface {
	// List returns all catalog entries ordered by display order,
	// ties broken by id.
	List(ctx context.Context) ([]models.AttributeConfig, error)

	// Upsert creates a new entry for cfg.AttributeKey or overwrites the
	// mutable fields of the existing one. An empty format type defaults
	// to text. Returns ErrEmptyKey, ErrMissingField or
	// ErrInvalidFormatType before any mutation.
	Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error)

	// UpdateByID applies a partial update to one entry.
	// Returns ErrNoFieldsToUpdate when the update carries nothing, and
	// ErrConfigNotFound when the id is unknown.
	UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error)

	// DeleteByKey removes the entry for one attribute key.
	// Returns ErrConfigNotFound if no entry has that key.
	DeleteByKey(ctx context.Context, attributeKey string) error

	// BatchReorder applies each {id, displayOrder} pair. Unknown ids are
	// silently skipped and the per-entry writes are not atomic: the
	// catalog's eventual order is last write per id wins. Returns the
	// number of entries actually updated.
	BatchReorder(ctx context.Context, updates []models.OrderUpdate) (int, error)
}

// catalogService is the concrete implementation of CatalogService.
type catalogService struct {
	repo repository.ConfigRepository
	log  *logger.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(repo repository.ConfigRepository, log *logger.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log,
	}
}

// List returns the full ordered catalog.
func (s *catalogService) List(ctx context.Context) ([]models.AttributeConfig, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list attribute configs", err, nil)
		return nil, fmt.Errorf("failed to list attribute configs: %w", err)
	}

	return configs, nil
}

// Upsert validates and stores one catalog entry keyed by attribute key.
func (s *catalogService) Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error) {
	if cfg.AttributeKey == "" {
		return nil, fmt.Errorf("%w: attributeKey", ErrEmptyKey)
	}
	if cfg.DisplayName == "" {
		return nil, fmt.Errorf("%w: displayName", ErrMissingField)
	}
	if cfg.FormatType == "" {
		cfg.FormatType = models.FormatText
	}
	if !cfg.FormatType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormatType, cfg.FormatType)
	}
	if cfg.VisibleRoles == nil {
		cfg.VisibleRoles = []string{"admin"}
	}

	stored, err := s.repo.Upsert(ctx, cfg)
	if err != nil {
		s.log.Error("Failed to upsert attribute config", err, map[string]interface{}{
			"attribute_key": cfg.AttributeKey,
		})
		return nil, fmt.Errorf("failed to upsert attribute config: %w", err)
	}

	s.log.Info("Attribute config upserted", map[string]interface{}{
		"attribute_key": stored.AttributeKey,
		"config_id":     stored.ID,
	})

	return stored, nil
}

// UpdateByID applies a partial update to one catalog entry.
func (s *catalogService) UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error) {
	if update.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	if update.FormatType != nil && !update.FormatType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormatType, *update.FormatType)
	}

	stored, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		s.log.Error("Failed to update attribute config", err, map[string]interface{}{
			"config_id": id,
		})
		return nil, fmt.Errorf("failed to update attribute config: %w", err)
	}

	if stored == nil {
		return nil, ErrConfigNotFound
	}

	s.log.Info("Attribute config updated", map[string]interface{}{
		"attribute_key": stored.AttributeKey,
		"config_id":     stored.ID,
	})

	return stored, nil
}

// DeleteByKey removes one catalog entry. Parcel documents carrying the key
// are untouched; purging them is a separate, explicit operation.
func (s *catalogService) DeleteByKey(ctx context.Context, attributeKey string) error {
	if attributeKey == "" {
		return fmt.Errorf("%w: attributeKey", ErrEmptyKey)
	}

	deleted, err := s.repo.DeleteByKey(ctx, attributeKey)
	if err != nil {
		s.log.Error("Failed to delete attribute config", err, map[string]interface{}{
			"attribute_key": attributeKey,
		})
		return fmt.Errorf("failed to delete attribute config: %w", err)
	}

	if !deleted {
		return ErrConfigNotFound
	}

	s.log.Info("Attribute config deleted", map[string]interface{}{
		"attribute_key": attributeKey,
	})

	return nil
}

// BatchReorder applies order updates one by one, tolerating unknown ids.
func (s *catalogService) BatchReorder(ctx context.Context, updates []models.OrderUpdate) (int, error) {
	applied := 0
	for _, update := range updates {
		ok, err := s.repo.UpdateOrder(ctx, update.ID, update.DisplayOrder)
		if err != nil {
			s.log.Error("Failed to update display order", err, map[string]interface{}{
				"config_id": update.ID,
			})
			return applied, fmt.Errorf("failed to update display order: %w", err)
		}
		if ok {
			applied++
		}
	}

	s.log.Info("Display order updated", map[string]interface{}{
		"requested": len(updates),
		"applied":   applied,
	})

	return applied, nil
}
