package services

import (
	"context"
	"fmt"

	"github.com/landgis/api/internal/logger"
	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/repository"
)

// SettingsService defines business logic for application settings.
type SettingsService interface {
	// GetEditPermissions returns the roles allowed to edit parcels,
	// falling back to admin-only when nothing has been saved yet.
	GetEditPermissions(ctx context.Context) (*models.EditPermissions, error)

	// SaveEditPermissions replaces the edit-permissions record.
	SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error
}

// settingsService is the concrete implementation of SettingsService.
type settingsService struct {
	repo repository.SettingsRepository
	log  *logger.Logger
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(repo repository.SettingsRepository, log *logger.Logger) SettingsService {
	return &settingsService{
		repo: repo,
		log:  log,
	}
}

// GetEditPermissions returns the stored record, or the admin-only default.
func (s *settingsService) GetEditPermissions(ctx context.Context) (*models.EditPermissions, error) {
	perms, err := s.repo.GetEditPermissions(ctx)
	if err != nil {
		s.log.Error("Failed to get edit permissions", err, nil)
		return nil, fmt.Errorf("failed to get edit permissions: %w", err)
	}

	if perms == nil {
		perms = &models.EditPermissions{AllowedRoles: []string{"admin"}}
	}

	return perms, nil
}

// SaveEditPermissions replaces the edit-permissions record.
func (s *settingsService) SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error {
	if perms.AllowedRoles == nil {
		perms.AllowedRoles = []string{}
	}

	if err := s.repo.SaveEditPermissions(ctx, perms); err != nil {
		s.log.Error("Failed to save edit permissions", err, nil)
		return fmt.Errorf("failed to save edit permissions: %w", err)
	}

	s.log.Info("Edit permissions saved", map[string]interface{}{
		"allowed_roles": perms.AllowedRoles,
	})

	return nil
}
