package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/shopfront/backend/internal/application/order"
)

// OrderHandler serves confirmation and the order read side
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Confirm godoc
// @ID           confirmOrder
// @Summary      Confirm the basket
// @Description  Freezes the total, attaches the delivery contact and queues the confirmation email
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.ConfirmOrderRequest true "Basket and contact"
// @Success      200 {object} Envelope[orderapp.OrderResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Failure      409 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /orders/confirm_order/ [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	var req orderapp.ConfirmOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.Confirm(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Customers see their own orders, staff see every order. Baskets are included with a live total.
// @Tags         orders
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} Envelope[[]orderapp.OrderResponse]
// @Failure      400 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /orders/ [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	resp, err := h.orderService.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} Envelope[orderapp.OrderResponse]
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /orders/{id}/ [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetStatus godoc
// @ID           setOrderStatus
// @Summary      Change an order's status
// @Description  Customers may reopen their own confirmed order as a basket. Processing, completed and canceled are staff only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.SetStatusRequest true "Target status"
// @Success      200 {object} Envelope[orderapp.OrderResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      403 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Failure      409 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /orders/{id}/ [patch]
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req orderapp.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.SetStatus(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
