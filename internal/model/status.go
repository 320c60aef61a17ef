package model

import "strings"

type OrderStatus string

const (
	OrderProcessing     OrderStatus = "processing"
	OrderShipped        OrderStatus = "shipped"
	OrderInTransit      OrderStatus = "in_transit"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderRTO            OrderStatus = "rto"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type ReturnStatus string

const (
	ReturnNone      ReturnStatus = "none"
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"
)

// BookingStatus tracks the Shiprocket push separately from fulfilment.
// pending → attempted → booked | failed. The pending→attempted claim is a
// compare-and-swap, so a booking is attempted at most once.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAttempted BookingStatus = "attempted"
	BookingBooked    BookingStatus = "booked"
	BookingFailed    BookingStatus = "failed"
)

// forwardRank orders the forward fulfilment sequence. cancelled and rto are
// absorbing and deliberately absent.
var forwardRank = map[OrderStatus]int{
	OrderProcessing:     0,
	OrderShipped:        1,
	OrderInTransit:      2,
	OrderOutForDelivery: 3,
	OrderDelivered:      4,
}

// Absorbing reports whether no further status transition is accepted.
func (s OrderStatus) Absorbing() bool {
	return s == OrderCancelled || s == OrderRTO
}

// CanAdvance reports whether a courier event may move an order from cur to
// next: absorbing states never leave, and the forward sequence never moves
// backwards. Equal rank is a no-op, which makes webhook replays idempotent.
func CanAdvance(cur, next OrderStatus) bool {
	if cur.Absorbing() {
		return false
	}
	if next.Absorbing() {
		return true
	}
	return forwardRank[next] > forwardRank[cur]
}

var courierStatusMap = map[string]OrderStatus{
	"new":                        OrderProcessing,
	"pickup scheduled":           OrderProcessing,
	"pickup generated":           OrderProcessing,
	"shipped":                    OrderShipped,
	"picked up":                  OrderShipped,
	"in transit":                 OrderInTransit,
	"reached at destination hub": OrderInTransit,
	"out for delivery":           OrderOutForDelivery,
	"delivered":                  OrderDelivered,
	"canceled":                   OrderCancelled,
	"cancelled":                  OrderCancelled,
}

// MapCourierStatus folds a free-text Shiprocket status into the closed
// OrderStatus enum. Unrecognized strings fall back to processing rather than
// failing the event; ok reports whether the string was recognized so callers
// can surface unmapped statuses.
func MapCourierStatus(raw string) (status OrderStatus, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if s, found := courierStatusMap[normalized]; found {
		return s, true
	}
	if strings.Contains(normalized, "rto") {
		return OrderRTO, true
	}

	return OrderProcessing, false
}
