package catalog

import (
	"context"

	"github.com/shopfront/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the catalog repositories.
// A price-list import runs entirely inside one Execute call.
type TransactionScope interface {
	// Execute commits when fn returns nil and rolls back otherwise
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are only valid inside the Execute callback that received them
type TransactionalRepositories interface {
	ShopRepo() catalog.ShopRepository
	ImportRepo() catalog.ImportRepository
}

// NoOpTransactionScope passes plain repositories to fn with no transaction
// around them. Service tests use it with in-memory fakes.
type NoOpTransactionScope struct {
	shopRepo   catalog.ShopRepository
	importRepo catalog.ImportRepository
}

func NewNoOpTransactionScope(shopRepo catalog.ShopRepository, importRepo catalog.ImportRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{shopRepo: shopRepo, importRepo: importRepo}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ShopRepo() catalog.ShopRepository     { return s.shopRepo }
func (s *NoOpTransactionScope) ImportRepo() catalog.ImportRepository { return s.importRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
