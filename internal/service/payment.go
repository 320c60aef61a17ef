package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"shoestore-backend/internal/client"
	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/model"
	"shoestore-backend/internal/repository"
)

type PaymentService interface {
	// CreateGatewayOrder registers the amount with Razorpay ahead of the
	// client-side payment flow and returns the gateway order id.
	CreateGatewayOrder(ctx context.Context, amountRupees float64) (string, error)

	// VerifyAndCreateOrder recomputes the callback signature and, only on a
	// match, persists the order and kicks off shipment booking. No order
	// record ever exists for an unverified payment.
	VerifyAndCreateOrder(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*model.Order, error)
}

type paymentServiceImpl struct {
	razorpayClient  client.RazorpayClient
	keySecret       string
	orderRepo       repository.OrderRepository
	shipmentService ShipmentService
}

func NewPaymentService(
	razorpayClient client.RazorpayClient,
	keySecret string,
	orderRepo repository.OrderRepository,
	shipmentService ShipmentService,
) PaymentService {
	return &paymentServiceImpl{
		razorpayClient:  razorpayClient,
		keySecret:       keySecret,
		orderRepo:       orderRepo,
		shipmentService: shipmentService,
	}
}

func (s *paymentServiceImpl) CreateGatewayOrder(ctx context.Context, amountRupees float64) (string, error) {
	if !s.razorpayClient.Configured() {
		return "", ErrGatewayNotConfigured
	}

	receipt := "receipt_" + uuid.NewString()
	order, err := s.razorpayClient.CreateOrder(ctx, model.PaiseFromRupees(amountRupees), receipt)
	if err != nil {
		return "", fmt.Errorf("razorpay create order: %w", err)
	}

	return order.OrderID, nil
}

// computeSignature is the Razorpay callback HMAC: SHA256 over
// "<order_id>|<payment_id>" keyed with the api secret, hex encoded.
func computeSignature(keySecret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *paymentServiceImpl) VerifyAndCreateOrder(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*model.Order, error) {
	// Fail closed: without the secret we cannot verify anything.
	if s.keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}

	expected := computeSignature(s.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
		return nil, ErrSignatureMismatch
	}

	details := req.OrderDetails
	order := &model.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Email:  details.Email,

		ShipName:    details.ShippingAddress.Name,
		ShipAddress: details.ShippingAddress.Address,
		ShipCity:    details.ShippingAddress.City,
		ShipState:   details.ShippingAddress.State,
		ShipPincode: details.ShippingAddress.Pincode,
		ShipPhone:   details.ShippingAddress.Phone,

		TotalAmount:  model.PaiseFromRupees(details.TotalAmount),
		ShippingCost: model.PaiseFromRupees(details.ShippingCost),

		PaymentID:     req.RazorpayPaymentID,
		PaymentStatus: model.PaymentCompleted,
		OrderStatus:   model.OrderProcessing,
		BookingStatus: model.BookingPending,
		ReturnStatus:  model.ReturnNone,
	}

	for _, item := range details.Items {
		order.Items = append(order.Items, model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: model.PaiseFromRupees(item.Price),
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Image:     item.Image,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	// Push to Shiprocket off the request path. The order is already saved;
	// a booking failure is reconciled later, never surfaced to the buyer.
	go func() {
		bookCtx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		if err := s.shipmentService.BookOrder(bookCtx, order.ID); err != nil {
			log.Printf("shiprocket booking for order %s failed: %v", order.ID, err)
		}
	}()

	return order, nil
}
