package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/application/services"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// OrderHandler handles Apple ID and purchase orders
type OrderHandler struct {
	orderService ports.OrderService
	logger       *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService ports.OrderService, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateAppleIDOrder places an Apple ID creation order
// @Summary Order an Apple ID
// @Description Converts the Shamsi birth date and generates the account credentials
// @Tags orders
// @Accept json
// @Produce json
// @Param order body ports.AppleIDOrderRequest true "Customer details"
// @Success 201 {object} ports.OrderView
// @Failure 400 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /orders/apple-id [post]
func (h *OrderHandler) CreateAppleIDOrder(c echo.Context) error {
	var req ports.AppleIDOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.CreateAppleIDOrder(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusCreated, services.NewOrderView(order))
}

// CreatePurchaseOrder places an order for a product or a used phone
// @Summary Order a product
// @Tags orders
// @Accept json
// @Produce json
// @Param order body ports.PurchaseOrderRequest true "Customer details and exactly one target"
// @Success 201 {object} ports.OrderView
// @Failure 400 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Router /orders/purchase [post]
func (h *OrderHandler) CreatePurchaseOrder(c echo.Context) error {
	var req ports.PurchaseOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.CreatePurchaseOrder(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusCreated, services.NewOrderView(order))
}

// ListOrders lists orders for the dashboard
// @Summary List orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(pending, processing, completed, cancelled)
// @Param kind query string false "Kind" Enums(apple_id, purchase)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ports.PaginatedResponse[ports.OrderView]
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := ports.OrderFilter{Limit: limit, Offset: offset}
	if s := c.QueryParam("status"); s != "" {
		status := entities.OrderStatus(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &status
	}
	if s := c.QueryParam("kind"); s != "" {
		kind := entities.OrderKind(s)
		if kind != entities.OrderKindAppleID && kind != entities.OrderKindPurchase {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid kind parameter")
		}
		filter.Kind = &kind
	}

	orders, total, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return errorStatus(err)
	}

	views := make([]ports.OrderView, len(orders))
	for i, o := range orders {
		views[i] = services.NewOrderView(o)
	}

	return c.JSON(http.StatusOK, paginated(views, total, limit, offset))
}

// GetOrder returns a single order
// @Summary Get order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} ports.OrderView
// @Failure 404 {object} ports.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, services.NewOrderView(order))
}

// UpdateStatus moves an order to a new status
// @Summary Update order status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param status body ports.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} ports.OrderView
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "update_order_status", id.String())
	return c.JSON(http.StatusOK, services.NewOrderView(order))
}
