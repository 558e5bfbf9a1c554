package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductInfoSortFields contains allowed sort fields for catalog listings
var ProductInfoSortFields = map[string]bool{
	"price":        true,
	"quantity":     true,
	"product_name": true,
	"created_at":   true,
}

const productInfoDetailColumns = `product_infos.id, product_infos.product_id, product_infos.shop_id,
	product_infos.external_id, product_infos.model, product_infos.quantity,
	product_infos.price, product_infos.price_rrc, product_infos.created_at,
	products.name AS product_name, products.category_id,
	categories.name AS category_name, shops.name AS shop_name, shops.state AS shop_state`

// GormCatalogRepository implements the catalog read, shop and import repositories using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_infos").
		Select(productInfoDetailColumns).
		Joins("JOIN products ON products.id = product_infos.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id")
}

// GetProductInfo returns a listing with its parameters
func (r *GormCatalogRepository) GetProductInfo(ctx context.Context, id uuid.UUID) (*catalog.ProductInfo, error) {
	var model models.ProductInfoModel
	if err := r.db.WithContext(ctx).Preload("Parameters").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("product info")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetProductInfoDetails returns denormalized listings keyed by ID
func (r *GormCatalogRepository) GetProductInfoDetails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.ProductInfoDetail, error) {
	result := make(map[uuid.UUID]catalog.ProductInfoDetail, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.ProductInfoDetailRow
	if err := r.detailQuery(ctx).Where("product_infos.id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// ShopAcceptsOrders reports whether the shop is open for orders
func (r *GormCatalogRepository) ShopAcceptsOrders(ctx context.Context, shopID uuid.UUID) (bool, error) {
	shop, err := r.FindByID(ctx, shopID)
	if err != nil {
		return false, err
	}
	return shop.AcceptsOrders(), nil
}

// SearchProductInfos lists listings matching the filter
func (r *GormCatalogRepository) SearchProductInfos(ctx context.Context, filter catalog.ProductInfoFilter) ([]catalog.ProductInfoDetail, int64, error) {
	f := filter.Filter.Normalize()
	scoped := func() *gorm.DB {
		query := r.detailQuery(ctx)
		if filter.OnlyOpenShops {
			query = query.Where("shops.state = ?", true)
		}
		if filter.ShopID != nil {
			query = query.Where("product_infos.shop_id = ?", *filter.ShopID)
		}
		if filter.CategoryID != nil {
			query = query.Where("products.category_id = ?", *filter.CategoryID)
		}
		if filter.MinPrice != nil {
			query = query.Where("product_infos.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query = query.Where("product_infos.price <= ?", *filter.MaxPrice)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(products.name) LIKE ? OR LOWER(product_infos.model) LIKE ? OR LOWER(shops.name) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(f.OrderBy, ProductInfoSortFields, "created_at")
	if orderBy != "product_name" {
		orderBy = "product_infos." + orderBy
	}
	var rows []models.ProductInfoDetailRow
	if err := scoped().
		Order(orderBy + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]catalog.ProductInfoDetail, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, total, nil
}

// FindByID finds a shop by ID
func (r *GormCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("shop")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a shop by its unique name
func (r *GormCatalogRepository) FindByName(ctx context.Context, name string) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("shop")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a shop
func (r *GormCatalogRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	model := &models.ShopModel{}
	model.FromDomain(shop)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveCategory upserts a category by external ID and links it to the shop
func (r *GormCatalogRepository) SaveCategory(ctx context.Context, category *catalog.Category, shopID uuid.UUID) (*catalog.Category, error) {
	model := &models.CategoryModel{
		BaseModel:  models.BaseModel{ID: category.ID, CreatedAt: category.CreatedAt, UpdatedAt: category.UpdatedAt},
		ExternalID: category.ExternalID,
		Name:       category.Name,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	var stored models.CategoryModel
	if err := r.db.WithContext(ctx).First(&stored, "external_id = ?", category.ExternalID).Error; err != nil {
		return nil, err
	}

	link := &models.CategoryShopModel{CategoryID: stored.ID, ShopID: shopID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to link category to shop: %w", err)
	}

	result := stored.ToDomain()
	result.LinkShop(shopID)
	return result, nil
}

// GetOrCreateProduct finds a product by (category, name) or creates it
func (r *GormCatalogRepository) GetOrCreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	model := &models.ProductModel{
		BaseModel:  models.BaseModel{ID: product.ID, CreatedAt: product.CreatedAt, UpdatedAt: product.UpdatedAt},
		CategoryID: product.CategoryID,
		Name:       product.Name,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	var stored models.ProductModel
	if err := r.db.WithContext(ctx).
		First(&stored, "category_id = ? AND name = ?", product.CategoryID, product.Name).Error; err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// UpsertProductInfo writes a listing keyed by (shop, external ID) and replaces its parameters
func (r *GormCatalogRepository) UpsertProductInfo(ctx context.Context, info *catalog.ProductInfo) (*catalog.ProductInfo, error) {
	model := &models.ProductInfoModel{}
	model.FromDomain(info)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"product_id", "model", "quantity", "price", "price_rrc", "updated_at"}),
		}).
		Omit("Parameters").
		Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save product info: %w", err)
	}

	var stored models.ProductInfoModel
	if err := r.db.WithContext(ctx).
		First(&stored, "shop_id = ? AND external_id = ?", info.ShopID, info.ExternalID).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("product_info_id = ?", stored.ID).
		Delete(&models.ProductParameterModel{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear product parameters: %w", err)
	}
	for _, param := range info.Parameters {
		p := &models.ProductParameterModel{
			ID:            uuid.New(),
			ProductInfoID: stored.ID,
			Name:          param.Name,
			Value:         param.Value,
		}
		if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
			return nil, fmt.Errorf("failed to save product parameter %q: %w", param.Name, err)
		}
		stored.Parameters = append(stored.Parameters, *p)
	}
	return stored.ToDomain(), nil
}

// DeleteShopProductInfosExcept removes the shop's listings that are not in keep,
// together with their parameters and any basket lines pointing at them.
// Lines of confirmed orders are kept as history.
func (r *GormCatalogRepository) DeleteShopProductInfosExcept(ctx context.Context, shopID uuid.UUID, keep []int) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductInfoModel{}).Where("shop_id = ?", shopID)
	if len(keep) > 0 {
		query = query.Where("external_id NOT IN ?", keep)
	}
	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("product_info_id IN ?", ids).Delete(&models.ProductParameterModel{}).Error; err != nil {
		return 0, fmt.Errorf("failed to delete product parameters: %w", err)
	}
	basketOrders := db.Model(&models.OrderModel{}).Select("id").Where("status = ?", order.StatusBasket)
	if err := db.Where("product_info_id IN ? AND order_id IN (?)", ids, basketOrders).
		Delete(&models.OrderedItemModel{}).Error; err != nil {
		return 0, fmt.Errorf("failed to delete basket lines: %w", err)
	}
	result := db.Where("id IN ?", ids).Delete(&models.ProductInfoModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete product infos: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Ensure GormCatalogRepository implements the catalog repositories
var (
	_ catalog.CatalogRepository = (*GormCatalogRepository)(nil)
	_ catalog.ShopRepository    = (*GormCatalogRepository)(nil)
	_ catalog.ImportRepository  = (*GormCatalogRepository)(nil)
)
