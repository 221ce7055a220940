package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/landgis/api/internal/models"
	"github.com/landgis/api/internal/services"
)

// MockParcelService is a mock implementation of services.ParcelService for testing
type MockParcelService struct {
	mock.Mock
}

func (m *MockParcelService) ListParcels(ctx context.Context) ([]models.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Parcel), args.Error(1)
}

func (m *MockParcelService) CreateParcel(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	args := m.Called(ctx, parcel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Parcel), args.Error(1)
}

func (m *MockParcelService) DeleteParcel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockParcelService) GetAttributes(ctx context.Context, id int64) (models.Attributes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Attributes), args.Error(1)
}

func (m *MockParcelService) ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Attributes), args.Error(1)
}

// MockCatalogService is a mock implementation of services.CatalogService for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context) ([]models.AttributeConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttributeConfig), args.Error(1)
}

func (m *MockCatalogService) Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeConfig), args.Error(1)
}

func (m *MockCatalogService) UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeConfig), args.Error(1)
}

func (m *MockCatalogService) DeleteByKey(ctx context.Context, attributeKey string) error {
	args := m.Called(ctx, attributeKey)
	return args.Error(0)
}

func (m *MockCatalogService) BatchReorder(ctx context.Context, updates []models.OrderUpdate) (int, error) {
	args := m.Called(ctx, updates)
	return args.Int(0), args.Error(1)
}

// MockSchemaService is a mock implementation of services.SchemaService for testing
type MockSchemaService struct {
	mock.Mock
}

func (m *MockSchemaService) RenameAttribute(ctx context.Context, oldKey, newKey string) (*services.RenameResult, error) {
	args := m.Called(ctx, oldKey, newKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RenameResult), args.Error(1)
}

func (m *MockSchemaService) AddAttribute(ctx context.Context, key string, formatType models.FormatType) (int64, error) {
	args := m.Called(ctx, key, formatType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchemaService) DeleteAttribute(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchemaService) SyncCatalog(ctx context.Context, entries []models.AttributeConfig) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

// MockSettingsService is a mock implementation of services.SettingsService for testing
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetEditPermissions(ctx context.Context) (*models.EditPermissions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EditPermissions), args.Error(1)
}

func (m *MockSettingsService) SaveEditPermissions(ctx context.Context, perms models.EditPermissions) error {
	args := m.Called(ctx, perms)
	return args.Error(0)
}
