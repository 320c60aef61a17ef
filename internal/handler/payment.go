package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/middleware"
	"shoestore-backend/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}

	orderID, err := h.paymentService.CreateGatewayOrder(ctx, req.Amount)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.CreatePaymentOrderResponse{OrderID: orderID})
}

func (h *PaymentHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing payment callback fields")
	}
	if req.OrderDetails == nil || len(req.OrderDetails.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order details")
	}

	order, err := h.paymentService.VerifyAndCreateOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.VerifyPaymentResponse{
		Success: true,
		OrderID: order.ID,
	})
}
