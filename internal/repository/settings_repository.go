package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/landgis/api/internal/models"
)

// SettingsRepository defines data access for the application settings
// records, of which only the edit-permissions record is modeled.
type SettingsRepository interface {
	// GetEditPermissions returns the stored edit-permissions record.
	// Returns nil, nil if no record has been saved yet.
	GetEditPermissions(ctx context.Context) (*models.EditPermissions, error)

	// SaveEditPermissions upserts the edit-permissions record.
	SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error
}

// settingsRepository is the concrete implementation of SettingsRepository.
type settingsRepository struct {
	db DBTX
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

// GetEditPermissions reads the edit-permissions record from app_settings.
func (r *settingsRepository) GetEditPermissions(ctx context.Context) (*models.EditPermissions, error) {
	var valueJSON []byte
	err := r.db.QueryRow(ctx,
		`SELECT setting_value FROM app_settings WHERE setting_key = $1`,
		models.EditPermissionsKey,
	).Scan(&valueJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query edit permissions: %w", err)
	}

	if valueJSON == nil {
		return nil, nil
	}

	var perms models.EditPermissions
	if err := json.Unmarshal(valueJSON, &perms); err != nil {
		return nil, fmt.Errorf("failed to parse edit permissions: %w", err)
	}

	return &perms, nil
}

// SaveEditPermissions upserts the edit-permissions record.
func (r *settingsRepository) SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error {
	valueJSON, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("failed to marshal edit permissions: %w", err)
	}

	query := `
		INSERT INTO app_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, models.EditPermissionsKey, valueJSON); err != nil {
		return fmt.Errorf("failed to save edit permissions: %w", err)
	}

	return nil
}
