package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_GetOrCreateBasket(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusBasket, first.Status)
	assert.Equal(t, userID, first.OwnerID)

	second, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one basket per user")

	var count int64
	require.NoError(t, db.Table("orders").Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	other, err := repo.GetOrCreateBasket(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGormOrderRepository_UpsertItemMergesQuantity(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	listing := seedListing(t, db, "svyaznoy", 1, "100")

	basket, err := repo.GetOrCreateBasket(ctx, uuid.New())
	require.NoError(t, err)

	line, err := order.NewOrderedItem(basket.ID, listing.info.ID, listing.shop.ID, 2)
	require.NoError(t, err)
	stored, err := repo.UpsertItem(ctx, line)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)

	again, err := order.NewOrderedItem(basket.ID, listing.info.ID, listing.shop.ID, 3)
	require.NoError(t, err)
	merged, err := repo.UpsertItem(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, 5, merged.Quantity)
	assert.Equal(t, stored.ID, merged.ID, "the existing line is updated in place")

	reloaded, err := repo.FindByID(ctx, basket.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 5, reloaded.Items[0].Quantity)
}

func TestGormOrderRepository_BasketItemOwnership(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	listing := seedListing(t, db, "citilink", 7, "10")
	owner, stranger := uuid.New(), uuid.New()

	basket, err := repo.GetOrCreateBasket(ctx, owner)
	require.NoError(t, err)
	line, _ := order.NewOrderedItem(basket.ID, listing.info.ID, listing.shop.ID, 1)
	stored, err := repo.UpsertItem(ctx, line)
	require.NoError(t, err)

	t.Run("owner finds the line", func(t *testing.T) {
		found, err := repo.FindBasketItem(ctx, owner, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, found.ID)
	})

	t.Run("another user gets not found", func(t *testing.T) {
		_, err := repo.FindBasketItem(ctx, stranger, stored.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByIDForUser(ctx, stranger, basket.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update and delete the line", func(t *testing.T) {
		require.NoError(t, repo.UpdateItemQuantity(ctx, stored.ID, 9))
		found, err := repo.FindBasketItem(ctx, owner, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, found.Quantity)

		require.NoError(t, repo.DeleteItem(ctx, stored.ID))
		assert.ErrorIs(t, repo.DeleteItem(ctx, stored.ID), shared.ErrNotFound)
		assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, stored.ID, 1), shared.ErrNotFound)
	})
}

func TestGormOrderRepository_DeleteWithItems(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	listing := seedListing(t, db, "eldorado", 3, "5")
	userID := uuid.New()

	basket, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	line, _ := order.NewOrderedItem(basket.ID, listing.info.ID, listing.shop.ID, 4)
	_, err = repo.UpsertItem(ctx, line)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteWithItems(ctx, basket.ID))

	_, err = repo.FindBasket(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	var items int64
	require.NoError(t, db.Table("ordered_items").Where("order_id = ?", basket.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestGormOrderRepository_SaveTransition(t *testing.T) {
	ctx := context.Background()

	confirmBasket := func(t *testing.T, repo *GormOrderRepository, userID uuid.UUID) *order.Order {
		t.Helper()
		basket, err := repo.GetOrCreateBasket(ctx, userID)
		require.NoError(t, err)
		basket.Status = order.StatusConfirmed
		contactID := uuid.New()
		basket.ContactID = &contactID
		basket.TotalPrice = decimal.NewFromInt(250)
		require.NoError(t, repo.SaveTransition(ctx, basket, order.StatusBasket))
		return basket
	}

	t.Run("confirms and freezes the total", func(t *testing.T) {
		repo := NewGormOrderRepository(newSQLiteDB(t))
		userID := uuid.New()
		basket := confirmBasket(t, repo, userID)

		stored, err := repo.FindByID(ctx, basket.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, stored.Status)
		assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(250)))
		require.NotNil(t, stored.ContactID)

		_, err = repo.FindBasket(ctx, userID)
		assert.ErrorIs(t, err, shared.ErrNotFound, "confirmed order is no longer the basket")
	})

	t.Run("stores line prices and drops them on reopen", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormOrderRepository(db)
		listing := seedListing(t, db, "svyaznoy", 1, "100")
		basket, err := repo.GetOrCreateBasket(ctx, uuid.New())
		require.NoError(t, err)
		line, err := order.NewOrderedItem(basket.ID, listing.info.ID, listing.shop.ID, 2)
		require.NoError(t, err)
		_, err = repo.UpsertItem(ctx, line)
		require.NoError(t, err)

		basket, err = repo.FindForUpdate(ctx, basket.ID)
		require.NoError(t, err)
		prices := order.PriceBook{listing.info.ID: decimal.NewFromInt(100)}
		require.NoError(t, basket.Confirm(uuid.New(), order.DeliveryAddress{}, "", prices))
		require.NoError(t, repo.SaveTransition(ctx, basket, order.StatusBasket))

		stored, err := repo.FindByID(ctx, basket.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		require.NotNil(t, stored.Items[0].UnitPrice)
		assert.True(t, decimal.NewFromInt(100).Equal(*stored.Items[0].UnitPrice))

		require.NoError(t, stored.SetStatus(order.StatusBasket, shared.NewCaller(stored.OwnerID, "", false)))
		require.NoError(t, repo.SaveTransition(ctx, stored, order.StatusConfirmed))
		reopened, err := repo.FindByID(ctx, basket.ID)
		require.NoError(t, err)
		assert.Nil(t, reopened.Items[0].UnitPrice)
	})

	t.Run("stale status loses the race", func(t *testing.T) {
		repo := NewGormOrderRepository(newSQLiteDB(t))
		basket := confirmBasket(t, repo, uuid.New())

		basket.Status = order.StatusConfirmed
		err := repo.SaveTransition(ctx, basket, order.StatusBasket)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("reopening while another basket exists is refused", func(t *testing.T) {
		repo := NewGormOrderRepository(newSQLiteDB(t))
		userID := uuid.New()
		confirmed := confirmBasket(t, repo, userID)

		_, err := repo.GetOrCreateBasket(ctx, userID)
		require.NoError(t, err)

		confirmed.Status = order.StatusBasket
		err = repo.SaveTransition(ctx, confirmed, order.StatusConfirmed)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	for _, u := range []uuid.UUID{alice, bob} {
		_, err := repo.GetOrCreateBasket(ctx, u)
		require.NoError(t, err)
	}

	all, total, err := repo.FindAll(ctx, order.ListFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	mine, total, err := repo.FindAll(ctx, order.ListFilter{Filter: shared.DefaultFilter(), UserID: &alice})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, alice, mine[0].OwnerID)

	confirmed := order.StatusConfirmed
	none, total, err := repo.FindAll(ctx, order.ListFilter{Filter: shared.DefaultFilter(), Status: &confirmed})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestGormOrderRepository_SQL(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert adds to the stored quantity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		item, _ := order.NewOrderedItem(uuid.New(), uuid.New(), uuid.New(), 2)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "ordered_items"`) +
			`.*` + regexp.QuoteMeta(`ON CONFLICT ("order_id","product_info_id","shop_id") DO UPDATE SET`) +
			`.*` + regexp.QuoteMeta(`ordered_items.quantity + excluded.quantity`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ordered_items" WHERE order_id = $1 AND product_info_id = $2 AND shop_id = $3`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_info_id", "shop_id", "quantity"}).
				AddRow(item.ID, item.OrderID, item.ProductInfoID, item.ShopID, 5))

		stored, err := repo.UpsertItem(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transition is a compare-and-set on status", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		o, _ := order.NewBasket(uuid.New())
		o.Status = order.StatusConfirmed
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`) + `.*` +
			regexp.QuoteMeta(`WHERE id = $`) + `\d+` + regexp.QuoteMeta(` AND status = $`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveTransition(ctx, o, order.StatusBasket)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("basket lookup locks the row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`) + `.*` + regexp.QuoteMeta(`FOR UPDATE`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindForUpdate(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
