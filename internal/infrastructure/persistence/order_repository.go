package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"confirmed_at": true,
	"status":       true,
	"total_price":  true,
}

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

func (r *GormOrderRepository) findOne(ctx context.Context, query func(*gorm.DB) *gorm.DB) (*order.Order, error) {
	var model models.OrderModel
	if err := query(r.preloadItems(r.db.WithContext(ctx))).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("order")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	})
}

// FindByIDForUser loads an order only if userID owns it
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ?", id, userID)
	})
}

// FindForUpdate loads an order and takes a row lock held until the surrounding
// transaction ends. Drivers without row locks ignore the clause.
func (r *GormOrderRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	})
}

// FindBasket returns the user's basket order
func (r *GormOrderRepository) FindBasket(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND status = ?", userID, order.StatusBasket)
	})
}

// GetOrCreateBasket inserts a basket unless the partial unique index on
// (user_id) WHERE status = 'basket' already holds one, then reads it back.
// Concurrent callers all end up with the same row.
func (r *GormOrderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	basket, err := order.NewBasket(userID)
	if err != nil {
		return nil, err
	}
	model := models.OrderModelFromDomain(basket)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status = 'basket'"}}},
			DoNothing:   true,
		}).
		Omit("Items").
		Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create basket: %w", err)
	}
	return r.FindBasket(ctx, userID)
}

// FindAll lists orders with their items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	f := filter.Filter.Normalize()
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.OrderModel{})
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(f.OrderBy, OrderSortFields, "created_at")
	var rows []models.OrderModel
	if err := r.preloadItems(scoped()).
		Order(orderBy + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// UpsertItem inserts the line or atomically adds its quantity to the
// existing (order, product info, shop) line, then returns the stored row.
func (r *GormOrderRepository) UpsertItem(ctx context.Context, item *order.OrderedItem) (*order.OrderedItem, error) {
	model := models.OrderedItemModelFromDomain(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}, {Name: "product_info_id"}, {Name: "shop_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("ordered_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert ordered item: %w", err)
	}

	var stored models.OrderedItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_info_id = ? AND shop_id = ?", item.OrderID, item.ProductInfoID, item.ShopID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// FindBasketItem returns an item only if it sits in userID's basket
func (r *GormOrderRepository) FindBasketItem(ctx context.Context, userID, itemID uuid.UUID) (*order.OrderedItem, error) {
	var model models.OrderedItemModel
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = ordered_items.order_id").
		Where("ordered_items.id = ? AND orders.user_id = ? AND orders.status = ?", itemID, userID, order.StatusBasket).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("ordered item")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateItemQuantity sets the quantity of one line
func (r *GormOrderRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderedItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("ordered item")
	}
	return nil
}

// DeleteItem removes one line
func (r *GormOrderRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.OrderedItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("ordered item")
	}
	return nil
}

// DeleteWithItems removes the order and its items in one transaction.
// Items are deleted explicitly rather than through a cascade.
func (r *GormOrderRepository) DeleteWithItems(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderedItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ordered items: %w", err)
		}
		if err := tx.Where("id = ?", orderID).Delete(&models.OrderModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// SaveTransition writes the order's status fields with a compare-and-set on
// the stored status, then each line's unit price. Zero rows affected means
// another writer got there first. Callers run it inside a transaction.
func (r *GormOrderRepository) SaveTransition(ctx context.Context, o *order.Order, from order.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", o.ID, from).
		Updates(map[string]interface{}{
			"status":       o.Status,
			"contact_id":   o.ContactID,
			"total_price":  o.TotalPrice,
			"confirmed_at": o.ConfirmedAt,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.NewInvalidStateError("user already has an open basket")
		}
		return fmt.Errorf("failed to save order transition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewInvalidStateError("order %s is no longer in %s status", o.ID, from)
	}

	for _, item := range o.Items {
		if err := r.db.WithContext(ctx).
			Model(&models.OrderedItemModel{}).
			Where("id = ?", item.ID).
			Update("unit_price", item.UnitPrice).Error; err != nil {
			return fmt.Errorf("failed to save unit price: %w", err)
		}
	}
	return nil
}

// Ensure GormOrderRepository implements order.OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
