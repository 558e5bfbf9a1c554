package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	appcontact "github.com/shopfront/backend/internal/application/contact"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/notification"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shopStack struct {
	db         *TestDB
	catalog    *appcatalog.CatalogService
	basket     *apporder.BasketService
	orders     *apporder.OrderService
	contacts   *appcontact.ContactService
	outbox     *event.GormOutboxRepository
	processor  *event.OutboxProcessor
	dispatcher *testutil.RecordingDispatcher
}

func newShopStack(t *testing.T) *shopStack {
	t.Helper()
	tdb := NewTestDB(t)
	log := zap.NewNop()

	catalogRepo := persistence.NewGormCatalogRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	outboxRepo := event.NewGormOutboxRepository(tdb.DB)
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	publisher := event.NewOutboxPublisher(outboxRepo, serializer, log)

	catalogService := appcatalog.NewCatalogService(persistence.NewGormCatalogTransactionScope(tdb.DB), catalogRepo, catalogRepo, log)
	catalogService.SetEventPublisher(publisher)

	orderScope := persistence.NewGormTransactionScope(tdb.DB)
	orderService := apporder.NewOrderService(orderScope, orderRepo, catalogRepo, apporder.DefaultConfig(), log)
	orderService.SetEventPublisher(publisher)

	dispatcher := testutil.NewRecordingDispatcher()
	notifier := notification.NewNotifier(dispatcher, "recording", "shop@shopfront.local", log)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewIdempotentHandler(
		apporder.NewOrderConfirmationHandler(notifier, log),
		cache.NewInMemoryIdempotencyStore(),
		log,
	))

	cfg := event.DefaultOutboxProcessorConfig()
	cfg.CleanupEnabled = false

	return &shopStack{
		db:         tdb,
		catalog:    catalogService,
		basket:     apporder.NewBasketService(orderScope, orderRepo, catalogRepo, log),
		orders:     orderService,
		contacts:   appcontact.NewContactService(persistence.NewGormContactRepository(tdb.DB), log),
		outbox:     outboxRepo,
		processor:  event.NewOutboxProcessor(outboxRepo, bus, serializer, cfg, log),
		dispatcher: dispatcher,
	}
}

// importPriceList loads two listings of one shop and returns them keyed by external id
func (s *shopStack) importPriceList(t *testing.T, ctx context.Context) map[int]appcatalog.ProductInfoResponse {
	t.Helper()
	_, err := s.catalog.ImportGoods(ctx, testutil.Staff("manager"), appcatalog.ImportGoodsRequest{
		Shop:       "Svyaznoy",
		Categories: []appcatalog.ImportCategory{{ID: 224, Name: "Smartphones"}},
		Goods: []appcatalog.ImportGood{
			{ID: 4216292, Category: 224, Model: "apple/iphone/xs-max", Name: "Apple iPhone XS Max 512GB",
				Price: decimal.NewFromInt(110000), PriceRRC: decimal.NewFromInt(116990), Quantity: 14,
				Parameters: map[string]string{"Color": "gold"}},
			{ID: 4672670, Category: 224, Model: "apple/airpods", Name: "Apple AirPods",
				Price: decimal.NewFromInt(13990), PriceRRC: decimal.NewFromInt(14990), Quantity: 4},
		},
	})
	require.NoError(t, err)

	page, err := s.catalog.ListProductInfos(ctx, appcatalog.ProductInfoListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	byExternal := make(map[int]appcatalog.ProductInfoResponse, len(page.Items))
	for _, item := range page.Items {
		byExternal[item.ExternalID] = item
	}
	return byExternal
}

func (s *shopStack) countOutbox(t *testing.T, ctx context.Context, status shared.OutboxStatus) int64 {
	t.Helper()
	counts, err := s.outbox.CountByStatus(ctx)
	require.NoError(t, err)
	return counts[status]
}

func quantity(n int) *int { return &n }

func TestShopFlow_ConfirmDeliversNotification(t *testing.T) {
	s := newShopStack(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	listings := s.importPriceList(t, ctx)
	alice := testutil.Customer("alice")

	phone := listings[4216292]
	pods := listings[4672670]

	_, err := s.basket.AddItem(ctx, alice, apporder.AddItemRequest{ProductInfoID: phone.ID, Quantity: quantity(1)})
	require.NoError(t, err)
	_, err = s.basket.AddItem(ctx, alice, apporder.AddItemRequest{ProductInfoID: pods.ID, Quantity: quantity(2)})
	require.NoError(t, err)

	baskets, err := s.basket.Get(ctx, alice)
	require.NoError(t, err)
	require.Len(t, baskets, 1)
	assert.True(t, baskets[0].TotalPrice.Equal(decimal.NewFromInt(137980)))

	contact, err := s.contacts.Create(ctx, alice, appcontact.ContactRequest{
		City: "Moscow", Street: "Tverskaya", House: "7", Phone: "+79990000000",
	})
	require.NoError(t, err)

	confirmed, err := s.orders.Confirm(ctx, alice, apporder.ConfirmOrderRequest{BasketID: baskets[0].ID, ContactID: contact.ID})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.True(t, confirmed.TotalPrice.Equal(decimal.NewFromInt(137980)))

	_, err = s.orders.Confirm(ctx, alice, apporder.ConfirmOrderRequest{BasketID: baskets[0].ID, ContactID: contact.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	s.processor.ProcessOnce(ctx)

	jobs := s.dispatcher.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, notification.KindOrderConfirmation, jobs[0].Kind)
	assert.Equal(t, confirmed.ID, jobs[0].OrderID)
	assert.Equal(t, alice.Email, jobs[0].To)
	assert.Zero(t, s.countOutbox(t, ctx, shared.OutboxStatusPending))

	// a fresh basket is opened on the next add
	_, err = s.basket.AddItem(ctx, alice, apporder.AddItemRequest{ProductInfoID: pods.ID, Quantity: quantity(1)})
	require.NoError(t, err)
	next, err := s.basket.Get(ctx, alice)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.NotEqual(t, baskets[0].ID, next[0].ID)
}

func TestShopFlow_ConcurrentAddsShareOneBasket(t *testing.T) {
	s := newShopStack(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	listings := s.importPriceList(t, ctx)
	bob := testutil.Customer("bob")
	phone := listings[4216292]

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.basket.AddItem(ctx, bob, apporder.AddItemRequest{ProductInfoID: phone.ID, Quantity: quantity(1)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	baskets, err := s.basket.Get(ctx, bob)
	require.NoError(t, err)
	require.Len(t, baskets, 1)
	require.Len(t, baskets[0].Items, 1)
	assert.Equal(t, workers, baskets[0].Items[0].Quantity)
}

func TestShopFlow_FailedDeliveryIsRetried(t *testing.T) {
	s := newShopStack(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	listings := s.importPriceList(t, ctx)
	carol := testutil.Customer("carol")

	item, err := s.basket.AddItem(ctx, carol, apporder.AddItemRequest{ProductInfoID: listings[4672670].ID, Quantity: quantity(1)})
	require.NoError(t, err)
	basketID := basketOf(t, ctx, s, carol)
	contact, err := s.contacts.Create(ctx, carol, appcontact.ContactRequest{City: "Kazan", Street: "Baumana", Phone: "+79991112233"})
	require.NoError(t, err)
	_, err = s.orders.Confirm(ctx, carol, apporder.ConfirmOrderRequest{BasketID: basketID, ContactID: contact.ID})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, item.ID)

	s.dispatcher.Fail(1, errors.New("smtp unavailable"))
	s.processor.ProcessOnce(ctx)
	assert.Empty(t, s.dispatcher.Jobs())
	assert.Equal(t, int64(1), s.countOutbox(t, ctx, shared.OutboxStatusFailed))

	// make the retry due now instead of after the backoff
	require.NoError(t, s.db.DB.WithContext(ctx).Exec(
		"UPDATE outbox_events SET next_retry_at = ? WHERE status = ?",
		time.Now().Add(-time.Second), shared.OutboxStatusFailed,
	).Error)

	s.processor.ProcessOnce(ctx)
	require.Len(t, s.dispatcher.Jobs(), 1)
	assert.Zero(t, s.countOutbox(t, ctx, shared.OutboxStatusFailed))
}

func TestShopFlow_ClosedShopRejectsItems(t *testing.T) {
	s := newShopStack(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	listings := s.importPriceList(t, ctx)
	phone := listings[4216292]

	closed := false
	_, err := s.catalog.SetShopState(ctx, testutil.Staff("manager"), phone.ShopID, appcatalog.SetShopStateRequest{State: &closed})
	require.NoError(t, err)

	_, err = s.basket.AddItem(ctx, testutil.Customer("dave"), apporder.AddItemRequest{ProductInfoID: phone.ID, Quantity: quantity(1)})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	page, err := s.catalog.ListProductInfos(ctx, appcatalog.ProductInfoListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func basketOf(t *testing.T, ctx context.Context, s *shopStack, caller shared.Caller) uuid.UUID {
	t.Helper()
	baskets, err := s.basket.Get(ctx, caller)
	require.NoError(t, err)
	require.Len(t, baskets, 1)
	return baskets[0].ID
}
