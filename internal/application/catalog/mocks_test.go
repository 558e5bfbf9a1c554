package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock implementation of catalog.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProductInfo(ctx context.Context, id uuid.UUID) (*catalog.ProductInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductInfo), args.Error(1)
}

func (m *MockCatalogRepository) GetProductInfoDetails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.ProductInfoDetail, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]catalog.ProductInfoDetail), args.Error(1)
}

func (m *MockCatalogRepository) ShopAcceptsOrders(ctx context.Context, shopID uuid.UUID) (bool, error) {
	args := m.Called(ctx, shopID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) SearchProductInfos(ctx context.Context, filter catalog.ProductInfoFilter) ([]catalog.ProductInfoDetail, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.ProductInfoDetail), args.Get(1).(int64), args.Error(2)
}

// MockShopRepository is a mock implementation of catalog.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByName(ctx context.Context, name string) (*catalog.Shop, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

// MockImportRepository is a mock implementation of catalog.ImportRepository
type MockImportRepository struct {
	mock.Mock
}

func (m *MockImportRepository) SaveCategory(ctx context.Context, category *catalog.Category, shopID uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, category, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockImportRepository) GetOrCreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockImportRepository) UpsertProductInfo(ctx context.Context, info *catalog.ProductInfo) (*catalog.ProductInfo, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductInfo), args.Error(1)
}

func (m *MockImportRepository) DeleteShopProductInfosExcept(ctx context.Context, shopID uuid.UUID, keep []int) (int64, error) {
	args := m.Called(ctx, shopID, keep)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
