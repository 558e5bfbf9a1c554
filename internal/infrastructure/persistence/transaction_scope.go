package persistence

import (
	"context"

	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/domain/order"
	"gorm.io/gorm"
)

// txRepositories hands out repositories bound to one transaction. It
// satisfies the repository sets of both the catalog and order scopes.
type txRepositories struct {
	tx *gorm.DB
}

func (r txRepositories) OrderRepo() order.OrderRepository       { return NewGormOrderRepository(r.tx) }
func (r txRepositories) CatalogRepo() catalog.CatalogRepository { return NewGormCatalogRepository(r.tx) }
func (r txRepositories) ContactRepo() contact.ContactRepository { return NewGormContactRepository(r.tx) }
func (r txRepositories) ShopRepo() catalog.ShopRepository       { return NewGormCatalogRepository(r.tx) }
func (r txRepositories) ImportRepo() catalog.ImportRepository   { return NewGormCatalogRepository(r.tx) }

func inTransaction(ctx context.Context, db *gorm.DB, fn func(txRepositories) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepositories{tx: tx})
	})
}

// GormTransactionScope runs order workflows in one GORM transaction; an
// error from fn rolls everything back.
type GormTransactionScope struct {
	db *gorm.DB
}

func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return inTransaction(ctx, s.db, func(r txRepositories) error { return fn(r) })
}

// GormCatalogTransactionScope runs a price-list import in one GORM transaction
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return inTransaction(ctx, s.db, func(r txRepositories) error { return fn(r) })
}

var (
	_ apporder.TransactionScope            = (*GormTransactionScope)(nil)
	_ apporder.TransactionalRepositories   = txRepositories{}
	_ appcatalog.TransactionScope          = (*GormCatalogTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories = txRepositories{}
)
