package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"shoestore-backend/internal/client"
	"shoestore-backend/internal/model"
	"shoestore-backend/internal/repository"
)

type TrackingInfo struct {
	Tracking *client.TrackingResponse `json:"tracking"`
	Message  string                   `json:"message,omitempty"`
}

type OrderService interface {
	List(ctx context.Context, userID string) ([]*model.Order, error)
	Track(ctx context.Context, userID, orderID string) (*TrackingInfo, error)

	// Cancel is allowed only while the order is still processing. A booking
	// already pushed to Shiprocket is cancelled there too, best-effort: the
	// local record is authoritative for the customer-facing promise.
	Cancel(ctx context.Context, userID, orderID string) error

	// RequestReturn books a pickup with Shiprocket and records the return
	// intent. Unlike forward booking the aggregator call must succeed, since
	// the return would otherwise exist nowhere.
	RequestReturn(ctx context.Context, userID, orderID, reason string) (int64, error)
}

type orderServiceImpl struct {
	orderRepo        repository.OrderRepository
	shiprocketClient client.ShiprocketClient
	returnWindowDays int
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	shiprocketClient client.ShiprocketClient,
	returnWindowDays int,
) OrderService {
	return &orderServiceImpl{
		orderRepo:        orderRepo,
		shiprocketClient: shiprocketClient,
		returnWindowDays: returnWindowDays,
	}
}

func (s *orderServiceImpl) findOwned(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not-owned and not-found are indistinguishable on purpose.
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	return order, nil
}

func (s *orderServiceImpl) List(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) Track(ctx context.Context, userID, orderID string) (*TrackingInfo, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !s.shiprocketClient.Configured() {
		return nil, ErrCourierNotConfigured
	}

	switch {
	case order.AWBCode != "":
		tracking, err := s.shiprocketClient.TrackByAWB(ctx, order.AWBCode)
		if err != nil {
			return nil, fmt.Errorf("track by awb: %w", err)
		}
		return &TrackingInfo{Tracking: tracking}, nil
	case order.ShiprocketShipmentID != 0:
		tracking, err := s.shiprocketClient.TrackByShipment(ctx, order.ShiprocketShipmentID)
		if err != nil {
			return nil, fmt.Errorf("track by shipment: %w", err)
		}
		return &TrackingInfo{Tracking: tracking}, nil
	default:
		return &TrackingInfo{
			Message: "Shipment not yet dispatched. Tracking will be available once the order is shipped.",
		}, nil
	}
}

func (s *orderServiceImpl) Cancel(ctx context.Context, userID, orderID string) error {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		if order.OrderStatus != model.OrderProcessing {
			return ErrNotCancellable
		}

		if attempt == 0 && order.ShiprocketOrderID != 0 && s.shiprocketClient.Configured() {
			if err := s.shiprocketClient.CancelOrders(ctx, []int64{order.ShiprocketOrderID}); err != nil {
				// Shiprocket may not have ingested the order yet, or we can
				// sync manually. Local cancellation still goes through.
				log.Printf("cancel shiprocket order %d: %v", order.ShiprocketOrderID, err)
			}
		}

		cancelled, err := s.orderRepo.Cancel(ctx, order.ID, order.Version)
		if err != nil {
			return fmt.Errorf("cancel order %s: %w", order.ID, err)
		}
		if cancelled {
			return nil
		}
		if attempt+1 >= maxApplyAttempts {
			return ErrConflict
		}

		// Lost the CAS to a webhook; reload and re-check cancellability.
		order, err = s.findOwned(ctx, userID, orderID)
		if err != nil {
			return err
		}
	}
}

func (s *orderServiceImpl) RequestReturn(ctx context.Context, userID, orderID, reason string) (int64, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return 0, err
	}

	if order.OrderStatus != model.OrderDelivered {
		return 0, ErrNotDelivered
	}
	if order.ReturnStatus != model.ReturnNone {
		return 0, ErrReturnAlreadyRequested
	}

	// DeliveredAt is stamped by the webhook mapper on the first delivered
	// transition; UpdatedAt covers orders that predate the field.
	deliveredAt := order.UpdatedAt
	if order.DeliveredAt != nil {
		deliveredAt = *order.DeliveredAt
	}
	elapsedDays := int(math.Ceil(time.Since(deliveredAt).Hours() / 24))
	if elapsedDays > s.returnWindowDays {
		return 0, fmt.Errorf("%w: %d days since delivery, window is %d days",
			ErrReturnWindowExpired, elapsedDays, s.returnWindowDays)
	}

	if !s.shiprocketClient.Configured() {
		return 0, ErrCourierNotConfigured
	}

	res, err := s.shiprocketClient.CreateReturn(ctx, &client.ReturnShipmentRequest{
		OrderID:            order.ID,
		OrderDate:          time.Now().Format(orderDateLayout),
		PickupCustomerName: order.ShipName,
		PickupAddress:      order.ShipAddress,
		PickupCity:         order.ShipCity,
		PickupPincode:      order.ShipPincode,
		PickupState:        order.ShipState,
		PickupPhone:        order.ShipPhone,
		PickupEmail:        order.Email,
		OrderItems:         shipmentItems(order.Items),
		PaymentMethod:      "Prepaid",
		SubTotal:           model.RupeesFromPaise(order.TotalAmount),
		Length:             parcelLengthCM,
		Breadth:            parcelBreadthCM,
		Height:             parcelHeightCM,
		Weight:             returnWeightKG,
	})
	if err != nil {
		// Hard failure: without the aggregator booking there is no record
		// of the return intent anywhere.
		return 0, fmt.Errorf("shiprocket create return: %w", err)
	}

	updated, err := s.orderRepo.SetReturnRequested(ctx, order.ID, order.Version, reason, res.OrderID)
	if err != nil {
		return 0, fmt.Errorf("store return request for order %s: %w", order.ID, err)
	}
	if !updated {
		return 0, ErrConflict
	}

	return res.OrderID, nil
}
