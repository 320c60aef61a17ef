package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shoestore-backend/internal/client"
	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/model"
	"shoestore-backend/internal/repository"
)

// Default parcel profile for a shoe box. Shiprocket requires declared
// dimensions and weight; product data carries neither.
const (
	parcelLengthCM  = 30
	parcelBreadthCM = 20
	parcelHeightCM  = 15
	parcelWeightKG  = 0.8
	returnWeightKG  = 0.5
)

const orderDateLayout = "2006-01-02 15:04"

type ShipmentService interface {
	// BookOrder pushes one order to Shiprocket. At most one booking attempt
	// is ever made per order; failures are terminal and reconciled manually.
	BookOrder(ctx context.Context, orderID string) error

	// BookPending sweeps orders whose booking was never attempted (e.g. the
	// process died between order creation and the booking call).
	BookPending(ctx context.Context) (int, error)

	CheckServiceability(ctx context.Context, req *dto.ServiceabilityRequest) (*dto.ServiceabilityResponse, error)
}

type shipmentServiceImpl struct {
	shiprocketClient client.ShiprocketClient
	orderRepo        repository.OrderRepository
	pickupLocation   string
	pickupPincode    string
}

func NewShipmentService(
	shiprocketClient client.ShiprocketClient,
	orderRepo repository.OrderRepository,
	pickupLocation string,
	pickupPincode string,
) ShipmentService {
	return &shipmentServiceImpl{
		shiprocketClient: shiprocketClient,
		orderRepo:        orderRepo,
		pickupLocation:   pickupLocation,
		pickupPincode:    pickupPincode,
	}
}

// splitName decomposes a full name into the first/last pair Shiprocket wants.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func shipmentItems(items []model.OrderItem) []client.ShipmentItem {
	out := make([]client.ShipmentItem, len(items))
	for i, item := range items {
		out[i] = client.ShipmentItem{
			Name:         item.Title,
			SKU:          item.ProductID,
			Units:        item.Quantity,
			SellingPrice: model.RupeesFromPaise(item.UnitPrice),
		}
	}
	return out
}

func (s *shipmentServiceImpl) BookOrder(ctx context.Context, orderID string) error {
	if !s.shiprocketClient.Configured() {
		return ErrCourierNotConfigured
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	claimed, err := s.orderRepo.ClaimBooking(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("claim booking for order %s: %w", order.ID, err)
	}
	if !claimed {
		// Already attempted elsewhere; booking is at-most-once.
		return nil
	}

	firstName, lastName := splitName(order.ShipName)

	res, err := s.shiprocketClient.CreateOrder(ctx, &client.ShipmentOrderRequest{
		OrderID:             order.ID,
		OrderDate:           time.Now().Format(orderDateLayout),
		PickupLocation:      s.pickupLocation,
		BillingCustomerName: firstName,
		BillingLastName:     lastName,
		BillingAddress:      order.ShipAddress,
		BillingCity:         order.ShipCity,
		BillingPincode:      order.ShipPincode,
		BillingState:        order.ShipState,
		BillingCountry:      "India",
		BillingEmail:        order.Email,
		BillingPhone:        order.ShipPhone,
		ShippingIsBilling:   true,
		OrderItems:          shipmentItems(order.Items),
		PaymentMethod:       "Prepaid",
		SubTotal:            model.RupeesFromPaise(order.TotalAmount),
		Length:              parcelLengthCM,
		Breadth:             parcelBreadthCM,
		Height:              parcelHeightCM,
		Weight:              parcelWeightKG,
	})
	if err != nil {
		if ferr := s.orderRepo.SetBookingFailed(ctx, order.ID); ferr != nil {
			log.Printf("mark booking failed for order %s: %v", order.ID, ferr)
		}
		return fmt.Errorf("shiprocket create order: %w", err)
	}

	if err := s.orderRepo.SetBookingBooked(ctx, order.ID, res.OrderID, res.ShipmentID, res.AWBCode, res.CourierName); err != nil {
		return fmt.Errorf("store shiprocket ids for order %s: %w", order.ID, err)
	}

	return nil
}

func (s *shipmentServiceImpl) BookPending(ctx context.Context) (int, error) {
	if !s.shiprocketClient.Configured() {
		return 0, nil
	}

	orders, err := s.orderRepo.ListPendingBookings(ctx, 20)
	if err != nil {
		return 0, fmt.Errorf("list pending bookings: %w", err)
	}

	booked := 0
	for _, order := range orders {
		if err := s.BookOrder(ctx, order.ID); err != nil {
			log.Printf("pending booking for order %s failed: %v", order.ID, err)
			continue
		}
		booked++
	}

	return booked, nil
}

func (s *shipmentServiceImpl) CheckServiceability(ctx context.Context, req *dto.ServiceabilityRequest) (*dto.ServiceabilityResponse, error) {
	if !s.shiprocketClient.Configured() {
		return nil, ErrCourierNotConfigured
	}

	weight := req.Weight
	if weight <= 0 {
		weight = returnWeightKG
	}

	quotes, err := s.shiprocketClient.CheckServiceability(ctx, s.pickupPincode, req.DeliveryPincode, weight, req.COD)
	if err != nil {
		return nil, fmt.Errorf("shiprocket serviceability: %w", err)
	}
	if len(quotes) == 0 {
		return nil, ErrNoCourierAvailable
	}

	cheapest := quotes[0]
	cheapestRate := decimal.NewFromFloat(cheapest.Rate)
	for _, quote := range quotes[1:] {
		if rate := decimal.NewFromFloat(quote.Rate); rate.LessThan(cheapestRate) {
			cheapest, cheapestRate = quote, rate
		}
	}

	return &dto.ServiceabilityResponse{
		Success:     true,
		CourierName: cheapest.CourierName,
		Rate:        cheapest.Rate,
		ETD:         cheapest.ETD,
	}, nil
}
