package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoestore-backend/internal/repository"
)

type HealthHandler struct {
	webhookEventRepo repository.WebhookEventRepository
}

func NewHealthHandler(webhookEventRepo repository.WebhookEventRepository) *HealthHandler {
	return &HealthHandler{
		webhookEventRepo: webhookEventRepo,
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	// A growing unmatched count means the aggregator pushes events we
	// cannot attribute to any order.
	unmatched, err := h.webhookEventRepo.CountUnmatched(ctx)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "degraded",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"unmatched_webhooks": unmatched,
	})
}
