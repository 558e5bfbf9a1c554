package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/catalogimport"
)

// CatalogHandler serves listings, shop state and partner price list uploads
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List product listings
// @Description  Listings of shops that accept orders. Search matches product name, model and shop name.
// @Tags         products
// @Produce      json
// @Param        search query string false "Search text"
// @Param        shop_id query string false "Shop ID" format(uuid)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        min_price query string false "Lowest price"
// @Param        max_price query string false "Highest price"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} Envelope[[]catalogapp.ProductInfoResponse]
// @Failure      400 {object} ErrorEnvelope
// @Router       /products/ [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductInfoListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	resp, err := h.catalogService.ListProductInfos(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product listing
// @Tags         products
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} Envelope[catalogapp.ProductInfoResponse]
// @Failure      404 {object} ErrorEnvelope
// @Router       /products/{id}/ [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.catalogService.GetProductInfo(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetShopState godoc
// @ID           setShopState
// @Summary      Open or close a shop for orders
// @Tags         shops
// @Accept       json
// @Produce      json
// @Param        id path string true "Shop ID" format(uuid)
// @Param        request body catalogapp.SetShopStateRequest true "New state"
// @Success      200 {object} Envelope[catalogapp.ShopResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      403 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /shops/{id}/state/ [patch]
func (h *CatalogHandler) SetShopState(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetShopStateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.catalogService.SetShopState(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ImportGoods godoc
// @ID           importGoods
// @Summary      Upload a shop's price list
// @Description  Replaces every listing of the shop named in the document
// @Tags         partner
// @Accept       application/x-yaml
// @Produce      json
// @Param        request body string true "YAML price list"
// @Success      200 {object} Envelope[catalogapp.ImportGoodsResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      403 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /partner/import/ [post]
func (h *CatalogHandler) ImportGoods(c *gin.Context) {
	who := caller(c)
	if err := who.Validate(); err != nil {
		h.HandleError(c, err)
		return
	}
	if !who.IsStaff {
		h.HandleError(c, shared.NewForbiddenError("only staff may import goods"))
		return
	}

	req, err := catalogimport.Parse(c.Request.Body)
	if err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.catalogService.ImportGoods(c.Request.Context(), who, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
