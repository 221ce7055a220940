package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/landgis/api/internal/logger"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/repository"
)

// Service-level errors
var (
	ErrEmptyKey    = errors.New("attribute key must not be empty")
	ErrSameKey     = errors.New("old and new attribute keys must differ")
	ErrKeyConflict = errors.New("attribute key already exists")
)

// Transactor runs a function inside one database transaction.
// *database.Database satisfies this.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RenameResult reports how many records each side of a rename touched.
type RenameResult struct {
	AffectedParcels int64 `json:"affectedParcels"`
	AffectedConfigs int64 `json:"affectedConfigs"`
}

// SchemaService coordinates structural attribute changes so the parcel
// documents and the configuration catalog stay consistent.
type SchemaService interface {
	// RenameAttribute moves oldKey to newKey in every parcel document and
	// in the catalog entry, inside one transaction. A missing catalog
	// entry is not an error: catalog entries are optional metadata, and
	// the affected-configs count is simply zero.
	// Returns ErrEmptyKey or ErrSameKey before any mutation, and
	// ErrKeyConflict (with the whole transaction rolled back) when newKey
	// already names another catalog entry.
	RenameAttribute(ctx context.Context, oldKey, newKey string) (*RenameResult, error)

	// AddAttribute inserts key with the format-derived default value into
	// every parcel document lacking it. No catalog entry is required or
	// created; registration is a separate, explicit step. Returns the
	// number of parcels changed.
	AddAttribute(ctx context.Context, key string, formatType models.FormatType) (int64, error)

	// DeleteAttribute removes key from every parcel document. The catalog
	// entry, if any, is left for the caller to delete independently.
	// Returns the number of parcels changed.
	DeleteAttribute(ctx context.Context, key string) (int64, error)

	// SyncCatalog reconciles client-held configuration back into the
	// catalog: each supplied entry is upserted by attribute key. This is
	// a catalog-only operation, applied per entry (last write wins), and
	// never touches parcel documents. Returns the number of entries
	// written.
	SyncCatalog(ctx context.Context, entries []models.AttributeConfig) (int, error)
}

// schemaService is the concrete implementation of SchemaService.
type schemaService struct {
	tx      Transactor
	parcels repository.ParcelRepository
	configs repository.ConfigRepository
	log     *logger.Logger
}

// NewSchemaService creates a new instance of SchemaService.
func NewSchemaService(tx Transactor, parcels repository.ParcelRepository, configs repository.ConfigRepository, log *logger.Logger) SchemaService {
	return &schemaService{
		tx:      tx,
		parcels: parcels,
		configs: configs,
		log:     log,
	}
}

// RenameAttribute renames one attribute key across documents and catalog
// in a single transaction. Either both sides apply or neither does.
func (s *schemaService) RenameAttribute(ctx context.Context, oldKey, newKey string) (*RenameResult, error) {
	if oldKey == "" || newKey == "" {
		return nil, ErrEmptyKey
	}
	if oldKey == newKey {
		return nil, ErrSameKey
	}

	var result RenameResult

	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		parcels, err := s.parcels.WithTx(tx).RenameKeyEverywhere(ctx, oldKey, newKey)
		if err != nil {
			return err
		}
		result.AffectedParcels = parcels

		cfg, err := s.configs.WithTx(tx).RenameKey(ctx, oldKey, newKey)
		if err != nil {
			return err
		}
		if cfg != nil {
			result.AffectedConfigs = 1
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.log.Warn("Rename rejected: destination key exists", map[string]interface{}{
				"old_key": oldKey,
				"new_key": newKey,
			})
			return nil, fmt.Errorf("%w: %q", ErrKeyConflict, newKey)
		}
		s.log.Error("Failed to rename attribute", err, map[string]interface{}{
			"old_key": oldKey,
			"new_key": newKey,
		})
		return nil, fmt.Errorf("failed to rename attribute: %w", err)
	}

	s.log.Info("Attribute renamed", map[string]interface{}{
		"old_key":          oldKey,
		"new_key":          newKey,
		"affected_parcels": result.AffectedParcels,
		"affected_configs": result.AffectedConfigs,
	})

	return &result, nil
}

// AddAttribute adds key with its format-derived default to every parcel
// document lacking it. Idempotent: a second call changes nothing.
func (s *schemaService) AddAttribute(ctx context.Context, key string, formatType models.FormatType) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	if formatType == "" {
		formatType = models.FormatText
	}
	if !formatType.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormatType, formatType)
	}

	count, err := s.parcels.AddKeyToAll(ctx, key, formatType.DefaultValue())
	if err != nil {
		s.log.Error("Failed to add attribute", err, map[string]interface{}{
			"key":         key,
			"format_type": formatType,
		})
		return 0, fmt.Errorf("failed to add attribute: %w", err)
	}

	s.log.Info("Attribute added to all parcels", map[string]interface{}{
		"key":              key,
		"format_type":      formatType,
		"affected_parcels": count,
	})

	return count, nil
}

// DeleteAttribute removes key from every parcel document.
func (s *schemaService) DeleteAttribute(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	count, err := s.parcels.DeleteKeyEverywhere(ctx, key)
	if err != nil {
		s.log.Error("Failed to delete attribute", err, map[string]interface{}{
			"key": key,
		})
		return 0, fmt.Errorf("failed to delete attribute: %w", err)
	}

	s.log.Info("Attribute deleted from all parcels", map[string]interface{}{
		"key":              key,
		"affected_parcels": count,
	})

	return count, nil
}

// SyncCatalog upserts each supplied entry by attribute key. Writes are
// per entry: a failure partway leaves earlier entries applied, which is
// acceptable for a reconcile the client can simply re-push.
func (s *schemaService) SyncCatalog(ctx context.Context, entries []models.AttributeConfig) (int, error) {
	written := 0
	for _, entry := range entries {
		if entry.AttributeKey == "" {
			return written, fmt.Errorf("%w: attributeKey", ErrEmptyKey)
		}
		if entry.DisplayName == "" {
			entry.DisplayName = entry.AttributeKey
		}
		if entry.FormatType == "" {
			entry.FormatType = models.FormatText
		}
		if !entry.FormatType.Valid() {
			return written, fmt.Errorf("%w: %q", ErrInvalidFormatType, entry.FormatType)
		}
		if entry.VisibleRoles == nil {
			entry.VisibleRoles = []string{"admin"}
		}

		if _, err := s.configs.Upsert(ctx, entry); err != nil {
			s.log.Error("Failed to sync attribute config", err, map[string]interface{}{
				"attribute_key": entry.AttributeKey,
			})
			return written, fmt.Errorf("failed to sync attribute config %q: %w", entry.AttributeKey, err)
		}
		written++
	}

	s.log.Info("Catalog synced from client state", map[string]interface{}{
		"entries": written,
	})

	return written, nil
}
