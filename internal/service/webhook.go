package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/model"
	"shoestore-backend/internal/repository"
)

// maxApplyAttempts bounds the CAS retry loop when a webhook races another
// mutation on the same order.
const maxApplyAttempts = 3

type WebhookService interface {
	// Process folds a courier status push into the order store. Events for
	// unknown orders are acknowledged (matched=false) so the aggregator does
	// not retry forever; every event leaves an audit row.
	Process(ctx context.Context, event *dto.CourierWebhookEvent) (*dto.CourierWebhookResult, error)
}

type webhookServiceImpl struct {
	orderRepo repository.OrderRepository
	eventRepo repository.WebhookEventRepository
}

func NewWebhookService(orderRepo repository.OrderRepository, eventRepo repository.WebhookEventRepository) WebhookService {
	return &webhookServiceImpl{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
	}
}

func (s *webhookServiceImpl) findOrder(ctx context.Context, shiprocketOrderID int64, awbCode string) (*model.Order, error) {
	if shiprocketOrderID != 0 {
		return s.orderRepo.FindByShiprocketOrderID(ctx, shiprocketOrderID)
	}
	return s.orderRepo.FindByAWB(ctx, awbCode)
}

func (s *webhookServiceImpl) Process(ctx context.Context, event *dto.CourierWebhookEvent) (*dto.CourierWebhookResult, error) {
	shiprocketOrderID, _ := event.OrderID.Int64()
	if shiprocketOrderID == 0 && event.AWB == "" {
		return nil, ErrMissingWebhookIdentifiers
	}

	mapped, recognized := model.MapCourierStatus(event.CurrentStatus)
	if !recognized {
		// Fail open to "processing", but make the unmapped string visible:
		// a renamed courier status should show up in ops, not vanish.
		log.Printf("unmapped courier status %q (shiprocket_order_id=%d awb=%q), falling back to %s",
			event.CurrentStatus, shiprocketOrderID, event.AWB, mapped)
	}

	audit := &model.WebhookEvent{
		ShiprocketOrderID: shiprocketOrderID,
		AWBCode:           event.AWB,
		RawStatus:         event.CurrentStatus,
		MappedStatus:      string(mapped),
		Mapped:            recognized,
	}

	order, err := s.findOrder(ctx, shiprocketOrderID, event.AWB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if aerr := s.eventRepo.Record(ctx, audit); aerr != nil {
				log.Printf("record webhook event: %v", aerr)
			}
			return &dto.CourierWebhookResult{Received: true, Matched: false}, nil
		}
		return nil, fmt.Errorf("find order for webhook: %w", err)
	}

	audit.Matched = true
	audit.OrderID = order.ID

	for attempt := 0; ; attempt++ {
		update := repository.StatusUpdate{}

		if model.CanAdvance(order.OrderStatus, mapped) {
			update.Status = mapped
			if mapped == model.OrderDelivered && order.DeliveredAt == nil {
				now := time.Now()
				update.DeliveredAt = &now
			}
		}
		if event.AWB != "" && order.AWBCode == "" {
			update.AWBCode = event.AWB
		}
		if event.CourierName != "" && order.CourierName == "" {
			update.CourierName = event.CourierName
		}

		if update.Empty() {
			// Duplicate, stale or absorbed event; nothing to apply.
			break
		}

		applied, err := s.orderRepo.ApplyStatus(ctx, order.ID, order.Version, update)
		if err != nil {
			return nil, fmt.Errorf("apply courier status: %w", err)
		}
		if applied {
			break
		}
		if attempt+1 >= maxApplyAttempts {
			return nil, fmt.Errorf("apply courier status for order %s: %w", order.ID, ErrConflict)
		}

		// Lost the CAS; reload and re-derive the transition.
		order, err = s.orderRepo.FindByID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("reload order for webhook retry: %w", err)
		}
	}

	if err := s.eventRepo.Record(ctx, audit); err != nil {
		log.Printf("record webhook event: %v", err)
	}

	return &dto.CourierWebhookResult{
		Received: true,
		Matched:  true,
		Status:   string(mapped),
	}, nil
}
