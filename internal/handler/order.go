package handler

import (
	"net/http"

	"autobier-api/internal/dto"
	"autobier-api/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Checkout converts a cart into a pending order with a Pix charge.
// POST /api/order/checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	receipt, err := h.orderService.Checkout(ctx, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, receipt)
}

// Status is the storefront polling endpoint.
// GET /api/order/status/:id
func (h *OrderHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.orderService.Status(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

// List returns every order with items, newest first.
// GET /api/order
func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.List(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// Cancel removes an order locally after a best-effort remote cancel.
// DELETE /api/order/:id
func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.Cancel(ctx, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "order and charge cancelled",
	})
}

// ClearHistory wipes all orders. Admin/test tooling only.
// DELETE /api/order/history
func (h *OrderHandler) ClearHistory(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.ClearHistory(ctx); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "order history cleared",
	})
}
