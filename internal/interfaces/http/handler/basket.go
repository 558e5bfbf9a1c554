package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/shopfront/backend/internal/application/order"
)

// BasketHandler serves the caller's basket
type BasketHandler struct {
	BaseHandler
	basketService *orderapp.BasketService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(basketService *orderapp.BasketService) *BasketHandler {
	return &BasketHandler{basketService: basketService}
}

// Get godoc
// @ID           getBasket
// @Summary      Get the basket
// @Description  Returns the caller's basket with a live total, or an empty list when there is none
// @Tags         basket
// @Produce      json
// @Success      200 {object} Envelope[[]orderapp.OrderResponse]
// @Failure      401 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /basket/ [get]
func (h *BasketHandler) Get(c *gin.Context) {
	baskets, err := h.basketService.Get(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, baskets)
}

// AddItem godoc
// @ID           addBasketItem
// @Summary      Add a listing to the basket
// @Description  Creates the basket on first use. Adding a listing already in the basket increases its quantity.
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body orderapp.AddItemRequest true "Listing and quantity"
// @Success      201 {object} Envelope[orderapp.OrderItemResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Failure      409 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /basket/ [post]
func (h *BasketHandler) AddItem(c *gin.Context) {
	var req orderapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.basketService.AddItem(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem godoc
// @ID           updateBasketItem
// @Summary      Set a basket line's quantity
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        item_id path string true "Basket line ID" format(uuid)
// @Param        request body orderapp.UpdateItemRequest true "New quantity"
// @Success      200 {object} Envelope[orderapp.OrderItemResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /basket/{item_id}/ [put]
func (h *BasketHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}
	var req orderapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.basketService.UpdateItem(c.Request.Context(), caller(c), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem godoc
// @ID           removeBasketItem
// @Summary      Remove a basket line
// @Tags         basket
// @Param        item_id path string true "Basket line ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /basket/{item_id}/ [delete]
func (h *BasketHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}
	if err := h.basketService.RemoveItem(c.Request.Context(), caller(c), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Clear godoc
// @ID           clearBasket
// @Summary      Empty the basket
// @Description  Deletes the basket and its lines. Clearing when there is no basket succeeds.
// @Tags         basket
// @Success      204
// @Security     BearerAuth
// @Router       /basket/ [delete]
func (h *BasketHandler) Clear(c *gin.Context) {
	if err := h.basketService.Clear(c.Request.Context(), caller(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
