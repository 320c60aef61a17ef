package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/middleware"
	"shoestore-backend/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.List(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *OrderHandler) TrackOrder(c echo.Context) error {
	ctx := c.Request().Context()

	info, err := h.orderService.Track(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, info)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId is required")
	}

	if err := h.orderService.Cancel(ctx, middleware.UserID(c), req.OrderID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order cancelled successfully",
	})
}

func (h *OrderHandler) ReturnOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ReturnOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" || req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId and reason are required")
	}

	returnOrderID, err := h.orderService.RequestReturn(ctx, middleware.UserID(c), req.OrderID, req.Reason)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ReturnOrderResponse{
		Success:       true,
		ReturnOrderID: returnOrderID,
	})
}
