package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shoestore-backend/internal/service"
)

// httpError maps service sentinels onto the HTTP contract:
// 400 invalid input / illegal transition, 404 not found or not owned,
// 503 dependency not configured, 500 otherwise.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, service.ErrOrderNotFound.Error())
	case errors.Is(err, service.ErrGatewayNotConfigured),
		errors.Is(err, service.ErrCourierNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrSignatureMismatch),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrNotDelivered),
		errors.Is(err, service.ErrReturnAlreadyRequested),
		errors.Is(err, service.ErrReturnWindowExpired),
		errors.Is(err, service.ErrMissingWebhookIdentifiers):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoCourierAvailable):
		return echo.NewHTTPError(http.StatusNotFound, service.ErrNoCourierAvailable.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, service.ErrConflict.Error())
	default:
		return err
	}
}
