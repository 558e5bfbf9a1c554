package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormCatalogTransactionScope_ImportGoods(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCatalogRepository(db)
	service := appcatalog.NewCatalogService(NewGormCatalogTransactionScope(db), repo, repo, zap.NewNop())
	ctx := context.Background()
	staff := shared.NewCaller(uuid.New(), "staff@shop.local", true)

	list := appcatalog.ImportGoodsRequest{
		Shop:       "Svyaznoy",
		Categories: []appcatalog.ImportCategory{{ID: 224, Name: "Smartphones"}},
		Goods: []appcatalog.ImportGood{
			{ID: 1, Category: 224, Name: "Phone A", Model: "a", Price: decimal.NewFromInt(100), Quantity: 3,
				Parameters: map[string]string{"Color": "black"}},
			{ID: 2, Category: 224, Name: "Phone B", Model: "b", Price: decimal.NewFromInt(50), Quantity: 1},
		},
	}

	first, err := service.ImportGoods(ctx, staff, list)
	require.NoError(t, err)
	assert.Zero(t, first.Removed)

	items, total, err := repo.SearchProductInfos(ctx, catalog.ProductInfoFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Svyaznoy", items[0].ShopName)

	list.Goods = list.Goods[:1]
	second, err := service.ImportGoods(ctx, staff, list)
	require.NoError(t, err)
	assert.Equal(t, first.ShopID, second.ShopID)
	assert.Equal(t, int64(1), second.Removed)

	_, total, err = repo.SearchProductInfos(ctx, catalog.ProductInfoFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGormCatalogTransactionScope_Rollback(t *testing.T) {
	db := newSQLiteDB(t)
	scope := NewGormCatalogTransactionScope(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos appcatalog.TransactionalRepositories) error {
		shop, err := catalog.NewShop("Eldorado", "")
		require.NoError(t, err)
		require.NoError(t, repos.ShopRepo().Save(ctx, shop))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewGormCatalogRepository(db).FindByName(ctx, "Eldorado")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionScope_Rollback(t *testing.T) {
	db := newSQLiteDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	owner := uuid.New()

	var saved *contact.Contact
	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		c, err := contact.NewContact(owner, contact.Details{City: "Moscow", Street: "Arbat", Phone: "+79990000000"})
		require.NoError(t, err)
		require.NoError(t, repos.ContactRepo().Save(ctx, c))
		saved = c
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, saved)

	_, err = NewGormContactRepository(db).GetContact(ctx, saved.ID, owner)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
