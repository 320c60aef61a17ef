package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/service"
)

type ShippingHandler struct {
	shipmentService service.ShipmentService
}

func NewShippingHandler(shipmentService service.ShipmentService) *ShippingHandler {
	return &ShippingHandler{
		shipmentService: shipmentService,
	}
}

// CheckServiceability quotes the cheapest courier for a delivery pincode.
// Used by the checkout page before payment.
func (h *ShippingHandler) CheckServiceability(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ServiceabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.DeliveryPincode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "deliveryPincode is required")
	}

	res, err := h.shipmentService.CheckServiceability(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, res)
}
