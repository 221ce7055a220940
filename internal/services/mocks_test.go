package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/repository"
)

// MockParcelRepository is a mock implementation of repository.ParcelRepository for testing
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) List(ctx context.Context) ([]models.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Parcel), args.Error(1)
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	args := m.Called(ctx, parcel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Parcel), args.Error(1)
}

func (m *MockParcelRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockParcelRepository) GetAttributes(ctx context.Context, id int64) (models.Attributes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Attributes), args.Error(1)
}

func (m *MockParcelRepository) ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Attributes), args.Error(1)
}

func (m *MockParcelRepository) AddKeyToAll(ctx context.Context, key string, value models.Value) (int64, error) {
	args := m.Called(ctx, key, value)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) RenameKeyEverywhere(ctx context.Context, oldKey, newKey string) (int64, error) {
	args := m.Called(ctx, oldKey, newKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) DeleteKeyEverywhere(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) WithTx(tx pgx.Tx) repository.ParcelRepository {
	return m
}

// MockConfigRepository is a mock implementation of repository.ConfigRepository for testing
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) List(ctx context.Context) ([]models.AttributeConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttributeConfig), args.Error(1)
}

func (m *MockConfigRepository) Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeConfig), args.Error(1)
}

func (m *MockConfigRepository) UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeConfig), args.Error(1)
}

func (m *MockConfigRepository) DeleteByKey(ctx context.Context, attributeKey string) (bool, error) {
	args := m.Called(ctx, attributeKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfigRepository) UpdateOrder(ctx context.Context, id int64, displayOrder int) (bool, error) {
	args := m.Called(ctx, id, displayOrder)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfigRepository) RenameKey(ctx context.Context, oldKey, newKey string) (*models.AttributeConfig, error) {
	args := m.Called(ctx, oldKey, newKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeConfig), args.Error(1)
}

func (m *MockConfigRepository) WithTx(tx pgx.Tx) repository.ConfigRepository {
	return m
}

// MockSettingsRepository is a mock implementation of repository.SettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetEditPermissions(ctx context.Context) (*models.EditPermissions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EditPermissions), args.Error(1)
}

func (m *MockSettingsRepository) SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error {
	args := m.Called(ctx, perms)
	return args.Error(0)
}

// MockTransactor runs the transactional closure directly with a nil
// transaction handle. The mock repositories ignore WithTx, so coordinator
// logic is exercised without a database.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}
