package order

import (
	"context"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories the
// order workflows touch. Everything done through repos inside fn commits or
// rolls back together.
type TransactionScope interface {
	// Execute commits when fn returns nil and rolls back otherwise
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are only valid inside the Execute callback that received them
type TransactionalRepositories interface {
	OrderRepo() order.OrderRepository
	CatalogRepo() catalog.CatalogRepository
	ContactRepo() contact.ContactRepository
}

// NoOpTransactionScope passes plain repositories to fn with no transaction
// around them. Service tests use it with in-memory fakes.
type NoOpTransactionScope struct {
	orderRepo   order.OrderRepository
	catalogRepo catalog.CatalogRepository
	contactRepo contact.ContactRepository
}

func NewNoOpTransactionScope(
	orderRepo order.OrderRepository,
	catalogRepo catalog.CatalogRepository,
	contactRepo contact.ContactRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		contactRepo: contactRepo,
	}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository       { return s.orderRepo }
func (s *NoOpTransactionScope) CatalogRepo() catalog.CatalogRepository { return s.catalogRepo }
func (s *NoOpTransactionScope) ContactRepo() contact.ContactRepository { return s.contactRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
