package catalog

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ImportGoods replaces a shop's price list. The shop is found by name or
// created, categories are upserted and linked to it, and every good becomes
// a listing keyed by the shop's own ID for it. Listings of the shop that the
// price list no longer mentions are removed together with their basket
// lines. Everything runs in one transaction.
func (s *CatalogService) ImportGoods(ctx context.Context, caller shared.Caller, req ImportGoodsRequest) (*ImportGoodsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "import_goods")
	defer span.End()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, shared.NewForbiddenError("only staff may import goods")
	}
	if err := validateImport(req); err != nil {
		return nil, err
	}

	var (
		shop *catalog.Shop
		resp = &ImportGoodsResponse{Categories: len(req.Categories), ProductInfos: len(req.Goods)}
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shop, err = findOrCreateShop(ctx, repos.ShopRepo(), strings.TrimSpace(req.Shop), req.URL)
		if err != nil {
			return err
		}

		importRepo := repos.ImportRepo()
		categoryIDs := make(map[int]*catalog.Category, len(req.Categories))
		for _, c := range req.Categories {
			category, err := catalog.NewCategory(c.ID, c.Name)
			if err != nil {
				return err
			}
			stored, err := importRepo.SaveCategory(ctx, category, shop.ID)
			if err != nil {
				return err
			}
			categoryIDs[c.ID] = stored
		}

		keep := make([]int, 0, len(req.Goods))
		for _, g := range req.Goods {
			product, err := catalog.NewProduct(categoryIDs[g.Category].ID, g.Name)
			if err != nil {
				return err
			}
			if product, err = importRepo.GetOrCreateProduct(ctx, product); err != nil {
				return err
			}

			info, err := catalog.NewProductInfo(product.ID, shop.ID, g.ID, g.Model, g.Quantity, g.Price, g.PriceRRC)
			if err != nil {
				return err
			}
			for _, name := range g.parameterNames() {
				info.AddParameter(name, g.Parameters[name])
			}
			if _, err := importRepo.UpsertProductInfo(ctx, info); err != nil {
				return err
			}
			keep = append(keep, g.ID)
		}

		resp.Removed, err = importRepo.DeleteShopProductInfosExcept(ctx, shop.ID, keep)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp.ShopID = shop.ID
	resp.ShopName = shop.Name
	span.SetAttributes(telemetry.AttrShopID.String(shop.ID.String()))

	shop.AddDomainEvent(catalog.NewGoodsImportedEvent(shop, caller.UserID, resp.ProductInfos, resp.Categories))
	s.publishEvents(ctx, shop)
	s.purgeListings(ctx)
	s.logger.Info("goods imported",
		zap.String("shop_id", shop.ID.String()),
		zap.String("shop", shop.Name),
		zap.Int("categories", resp.Categories),
		zap.Int("product_infos", resp.ProductInfos),
		zap.Int64("removed", resp.Removed),
	)
	return resp, nil
}

func findOrCreateShop(ctx context.Context, repo catalog.ShopRepository, name, url string) (*catalog.Shop, error) {
	shop, err := repo.FindByName(ctx, name)
	switch {
	case err == nil:
		if url == "" || url == shop.URL {
			return shop, nil
		}
		shop.URL = url
	case isNotFound(err):
		if shop, err = catalog.NewShop(name, url); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if err := repo.Save(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// validateImport checks the whole price list before anything is written
func validateImport(req ImportGoodsRequest) error {
	if strings.TrimSpace(req.Shop) == "" {
		return shared.NewValidationError("shop is required")
	}

	categories := make(map[int]bool, len(req.Categories))
	for _, c := range req.Categories {
		if categories[c.ID] {
			return shared.NewValidationError("category %d is listed twice", c.ID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return shared.NewValidationError("category %d has no name", c.ID)
		}
		categories[c.ID] = true
	}

	goods := make(map[int]bool, len(req.Goods))
	for _, g := range req.Goods {
		if goods[g.ID] {
			return shared.NewValidationError("good %d is listed twice", g.ID)
		}
		goods[g.ID] = true
		if !categories[g.Category] {
			return shared.NewValidationError("good %d refers to unknown category %d", g.ID, g.Category)
		}
		if strings.TrimSpace(g.Name) == "" {
			return shared.NewValidationError("good %d has no name", g.ID)
		}
		if g.Quantity < 0 {
			return shared.NewValidationError("good %d has a negative quantity", g.ID)
		}
		if g.Price.IsNegative() || g.PriceRRC.IsNegative() {
			return shared.NewValidationError("good %d has a negative price", g.ID)
		}
	}
	return nil
}
