package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingCache stores serialized listing pages
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// CatalogService serves the public catalog and the staff-side shop and
// price-list operations
type CatalogService struct {
	txScope        TransactionScope
	catalogRepo    catalog.CatalogRepository
	shopRepo       catalog.ShopRepository
	cache          ListingCache
	cacheTTL       time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	txScope TransactionScope,
	catalogRepo catalog.CatalogRepository,
	shopRepo catalog.ShopRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		txScope:     txScope,
		catalogRepo: catalogRepo,
		shopRepo:    shopRepo,
		logger:      logger,
	}
}

// SetListingCache enables caching of listing pages for ttl
func (s *CatalogService) SetListingCache(cache ListingCache, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *CatalogService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListProductInfos returns a page of listings of open shops
func (s *CatalogService) ListProductInfos(ctx context.Context, filter ProductInfoListFilter) (*ProductInfoListResponse, error) {
	pf, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}

	key := listingCacheKey(pf)
	if cached := s.cachedPage(ctx, key); cached != nil {
		return cached, nil
	}

	items, total, err := s.catalogRepo.SearchProductInfos(ctx, pf)
	if err != nil {
		return nil, err
	}

	resp := &ProductInfoListResponse{
		Items:      make([]ProductInfoResponse, len(items)),
		Total:      total,
		Page:       pf.Page,
		PageSize:   pf.PageSize,
		TotalPages: shared.PageCount(total, pf.PageSize),
	}
	for i := range items {
		resp.Items[i] = ToProductInfoResponse(items[i])
	}

	s.storePage(ctx, key, resp)
	return resp, nil
}

// GetProductInfo returns one listing with its parameters
func (s *CatalogService) GetProductInfo(ctx context.Context, id uuid.UUID) (*ProductInfoResponse, error) {
	info, err := s.catalogRepo.GetProductInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.catalogRepo.GetProductInfoDetails(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	detail, ok := details[id]
	if !ok {
		return nil, shared.NewNotFoundError("product info")
	}
	detail.Parameters = info.Parameters

	resp := ToProductInfoResponse(detail)
	return &resp, nil
}

// SetShopState opens or closes a shop for orders. Staff only.
func (s *CatalogService) SetShopState(ctx context.Context, caller shared.Caller, shopID uuid.UUID, req SetShopStateRequest) (*ShopResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "set_shop_state")
	defer span.End()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, shared.NewForbiddenError("only staff may change a shop's state")
	}
	if req.State == nil {
		return nil, shared.NewValidationError("state is required")
	}
	span.SetAttributes(telemetry.AttrShopID.String(shopID.String()))

	var (
		shop    *catalog.Shop
		changed bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shop, err = repos.ShopRepo().FindByID(ctx, shopID)
		if err != nil {
			return err
		}
		if changed = shop.SetState(*req.State); !changed {
			return nil
		}
		return repos.ShopRepo().Save(ctx, shop)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if changed {
		s.publishEvents(ctx, shop)
		s.purgeListings(ctx)
		s.logger.Info("shop state changed",
			zap.String("shop_id", shop.ID.String()),
			zap.Bool("state", shop.State),
			zap.String("changed_by", caller.UserID.String()),
		)
	}

	resp := ToShopResponse(shop)
	return &resp, nil
}

func (s *CatalogService) cachedPage(ctx context.Context, key string) *ProductInfoListResponse {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("listing cache read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var resp ProductInfoListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("discarding undecodable listing page", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &resp
}

func (s *CatalogService) storePage(ctx context.Context, key string, resp *ProductInfoListResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("failed to encode listing page", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

func (s *CatalogService) purgeListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("listing cache purge failed", zap.Error(err))
	}
}

// publishEvents hands the shop's events to the publisher after commit.
// Failures are logged only.
func (s *CatalogService) publishEvents(ctx context.Context, shop *catalog.Shop) {
	events := shop.GetDomainEvents()
	shop.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		s.logger.Error("failed to publish shop events",
			zap.String("shop_id", shop.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

func toDomainFilter(f ProductInfoListFilter) (catalog.ProductInfoFilter, error) {
	pf := catalog.ProductInfoFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   strings.TrimSpace(f.Search),
		}.Normalize(),
		OnlyOpenShops: true,
	}
	if pf.OrderBy == "" {
		pf.OrderBy = "created_at"
	}

	var err error
	if pf.ShopID, err = parseOptionalID("shop_id", f.ShopID); err != nil {
		return pf, err
	}
	if pf.CategoryID, err = parseOptionalID("category_id", f.CategoryID); err != nil {
		return pf, err
	}
	if pf.MinPrice, err = parseOptionalPrice("min_price", f.MinPrice); err != nil {
		return pf, err
	}
	if pf.MaxPrice, err = parseOptionalPrice("max_price", f.MaxPrice); err != nil {
		return pf, err
	}
	if pf.MinPrice != nil && pf.MaxPrice != nil && pf.MinPrice.GreaterThan(*pf.MaxPrice) {
		return pf, shared.NewValidationError("min_price cannot exceed max_price")
	}
	return pf, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewValidationError("%s must be a UUID", field)
	}
	return &id, nil
}

func parseOptionalPrice(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, shared.NewValidationError("%s must be a non-negative number", field)
	}
	return &d, nil
}

// listingCacheKey derives a fixed-length key from the normalized filter
func listingCacheKey(f catalog.ProductInfoFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "page=%d&size=%d&order=%s:%s&q=%s", f.Page, f.PageSize, f.OrderBy, f.OrderDir, f.Search)
	if f.ShopID != nil {
		fmt.Fprintf(&b, "&shop=%s", f.ShopID)
	}
	if f.CategoryID != nil {
		fmt.Fprintf(&b, "&category=%s", f.CategoryID)
	}
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "&min=%s", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "&max=%s", f.MaxPrice.String())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
