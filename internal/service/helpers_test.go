package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shoestore-backend/internal/client"
	"shoestore-backend/internal/dto"
	"shoestore-backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.OrderItem{}, &model.WebhookEvent{}))

	return db
}

func seedOrder(t *testing.T, db *gorm.DB, mutate func(*model.Order)) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:            "ord-1",
		UserID:        "user-a",
		Email:         "asha@example.com",
		ShipName:      "Asha Verma",
		ShipAddress:   "14 MG Road",
		ShipCity:      "Bengaluru",
		ShipState:     "Karnataka",
		ShipPincode:   "560001",
		ShipPhone:     "9876543210",
		TotalAmount:   1299900,
		PaymentID:     "pay_123",
		PaymentStatus: model.PaymentCompleted,
		OrderStatus:   model.OrderProcessing,
		BookingStatus: model.BookingPending,
		ReturnStatus:  model.ReturnNone,
		Items: []model.OrderItem{
			{OrderID: "ord-1", ProductID: "sku-runner-42", Title: "Street Runner", UnitPrice: 649950, Quantity: 2, Size: "42", Image: "runner.jpg"},
		},
	}
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, db.Create(order).Error)

	return order
}

func reload(t *testing.T, db *gorm.DB, id string) *model.Order {
	t.Helper()

	var order model.Order
	require.NoError(t, db.Preload("Items").Where("id = ?", id).First(&order).Error)
	return &order
}

// fakeShiprocket implements client.ShiprocketClient in memory.
type fakeShiprocket struct {
	configured bool

	createOrderRes  *client.ShipmentOrderResponse
	createOrderErr  error
	createOrderReqs []*client.ShipmentOrderRequest

	returnRes  *client.ReturnShipmentResponse
	returnErr  error
	returnReqs []*client.ReturnShipmentRequest

	cancelled [][]int64
	cancelErr error

	quotes    []client.CourierQuote
	quotesErr error

	tracking *client.TrackingResponse
}

func (f *fakeShiprocket) Configured() bool { return f.configured }

func (f *fakeShiprocket) CreateOrder(_ context.Context, req *client.ShipmentOrderRequest) (*client.ShipmentOrderResponse, error) {
	f.createOrderReqs = append(f.createOrderReqs, req)
	if f.createOrderErr != nil {
		return nil, f.createOrderErr
	}
	return f.createOrderRes, nil
}

func (f *fakeShiprocket) CreateReturn(_ context.Context, req *client.ReturnShipmentRequest) (*client.ReturnShipmentResponse, error) {
	f.returnReqs = append(f.returnReqs, req)
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	return f.returnRes, nil
}

func (f *fakeShiprocket) TrackByAWB(context.Context, string) (*client.TrackingResponse, error) {
	if f.tracking == nil {
		return nil, errors.New("no tracking fixture")
	}
	return f.tracking, nil
}

func (f *fakeShiprocket) TrackByShipment(context.Context, int64) (*client.TrackingResponse, error) {
	if f.tracking == nil {
		return nil, errors.New("no tracking fixture")
	}
	return f.tracking, nil
}

func (f *fakeShiprocket) CancelOrders(_ context.Context, ids []int64) error {
	f.cancelled = append(f.cancelled, ids)
	return f.cancelErr
}

func (f *fakeShiprocket) CheckServiceability(context.Context, string, string, float64, int) ([]client.CourierQuote, error) {
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	return f.quotes, nil
}

// fakeRazorpay implements client.RazorpayClient.
type fakeRazorpay struct {
	configured bool
	orderID    string
	lastPaise  int64
	err        error
}

func (f *fakeRazorpay) Configured() bool { return f.configured }

func (f *fakeRazorpay) CreateOrder(_ context.Context, amountPaise int64, _ string) (*client.GatewayOrder, error) {
	f.lastPaise = amountPaise
	if f.err != nil {
		return nil, f.err
	}
	return &client.GatewayOrder{OrderID: f.orderID, Amount: amountPaise, Currency: "INR"}, nil
}

// stubShipment satisfies ShipmentService for payment tests; it signals each
// booking request instead of touching Shiprocket.
type stubShipment struct {
	booked chan string
}

func (s *stubShipment) BookOrder(_ context.Context, orderID string) error {
	if s.booked != nil {
		select {
		case s.booked <- orderID:
		case <-time.After(time.Second):
		}
	}
	return nil
}

func (s *stubShipment) BookPending(context.Context) (int, error) { return 0, nil }

func (s *stubShipment) CheckServiceability(context.Context, *dto.ServiceabilityRequest) (*dto.ServiceabilityResponse, error) {
	return nil, nil
}
