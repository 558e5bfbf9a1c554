package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a file-backed sqlite database with the shop schema.
// The partial basket index mirrors the postgres migration.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "shop.db")), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ShopModel{},
		&models.CategoryModel{},
		&models.CategoryShopModel{},
		&models.ProductModel{},
		&models.ProductInfoModel{},
		&models.ProductParameterModel{},
		&models.ContactModel{},
		&models.OrderModel{},
		&models.OrderedItemModel{},
	))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX idx_orders_one_basket ON orders (user_id) WHERE status = 'basket'",
	).Error)
	return db
}

// newMockGormDB wires gorm's postgres dialect to sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

type seededListing struct {
	shop *catalog.Shop
	info *catalog.ProductInfo
}

// seedListing creates shop, category, product and one listing priced at price
func seedListing(t *testing.T, db *gorm.DB, shopName string, externalID int, price string) seededListing {
	t.Helper()
	ctx := context.Background()
	repo := NewGormCatalogRepository(db)

	shop, err := repo.FindByName(ctx, shopName)
	if err != nil {
		shop, err = catalog.NewShop(shopName, "https://"+shopName+".example.com")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, shop))
	}

	category, err := catalog.NewCategory(224, "Smartphones")
	require.NoError(t, err)
	category, err = repo.SaveCategory(ctx, category, shop.ID)
	require.NoError(t, err)

	product, err := catalog.NewProduct(category.ID, "Phone "+uuid.NewString()[:8])
	require.NoError(t, err)
	product, err = repo.GetOrCreateProduct(ctx, product)
	require.NoError(t, err)

	info, err := catalog.NewProductInfo(product.ID, shop.ID, externalID, "model-"+shopName, 10,
		decimal.RequireFromString(price), decimal.RequireFromString(price))
	require.NoError(t, err)
	info.AddParameter("Color", "black")
	info, err = repo.UpsertProductInfo(ctx, info)
	require.NoError(t, err)

	return seededListing{shop: shop, info: info}
}

func seedContact(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *contact.Contact {
	t.Helper()
	c, err := contact.NewContact(ownerID, contact.Details{City: "Moscow", Street: "Arbat", House: "1", Phone: "+79990000000"})
	require.NoError(t, err)
	require.NoError(t, NewGormContactRepository(db).Save(context.Background(), c))
	return c
}
