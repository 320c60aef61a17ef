package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCourierStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   OrderStatus
		mapped bool
	}{
		{"Delivered", OrderDelivered, true},
		{"delivered", OrderDelivered, true},
		{"  DELIVERED  ", OrderDelivered, true},
		{"Shipped", OrderShipped, true},
		{"Picked Up", OrderShipped, true},
		{"In Transit", OrderInTransit, true},
		{"Reached at Destination Hub", OrderInTransit, true},
		{"Out For Delivery", OrderOutForDelivery, true},
		{"New", OrderProcessing, true},
		{"Pickup Scheduled", OrderProcessing, true},
		{"Canceled", OrderCancelled, true},
		{"Cancelled", OrderCancelled, true},
		{"RTO Initiated", OrderRTO, true},
		{"RTO Delivered", OrderRTO, true},
		// Unrecognized strings fall back to processing, never an error.
		{"Label Generated", OrderProcessing, false},
		{"", OrderProcessing, false},
		{"Quantum Teleported", OrderProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, mapped := MapCourierStatus(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.mapped, mapped)
		})
	}
}

func TestMapCourierStatus_Pure(t *testing.T) {
	first, _ := MapCourierStatus("In Transit")
	for i := 0; i < 5; i++ {
		again, _ := MapCourierStatus("In Transit")
		assert.Equal(t, first, again)
	}
}

func TestCanAdvance_Forward(t *testing.T) {
	assert.True(t, CanAdvance(OrderProcessing, OrderShipped))
	assert.True(t, CanAdvance(OrderProcessing, OrderDelivered))
	assert.True(t, CanAdvance(OrderShipped, OrderInTransit))
	assert.True(t, CanAdvance(OrderOutForDelivery, OrderDelivered))
}

func TestCanAdvance_NoBackwardsOrRepeat(t *testing.T) {
	assert.False(t, CanAdvance(OrderDelivered, OrderInTransit))
	assert.False(t, CanAdvance(OrderShipped, OrderProcessing))
	assert.False(t, CanAdvance(OrderInTransit, OrderInTransit))
	assert.False(t, CanAdvance(OrderProcessing, OrderProcessing))
}

func TestCanAdvance_AbsorbingStates(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderCancelled, OrderRTO} {
		for _, next := range []OrderStatus{
			OrderProcessing, OrderShipped, OrderInTransit,
			OrderOutForDelivery, OrderDelivered, OrderCancelled, OrderRTO,
		} {
			assert.False(t, CanAdvance(terminal, next), "%s must absorb %s", terminal, next)
		}
	}

	// But everything non-terminal can fall into them.
	assert.True(t, CanAdvance(OrderProcessing, OrderCancelled))
	assert.True(t, CanAdvance(OrderDelivered, OrderRTO))
}

func TestMoneyConversion(t *testing.T) {
	assert.Equal(t, int64(1299900), PaiseFromRupees(12999))
	assert.Equal(t, int64(649950), PaiseFromRupees(6499.50))
	assert.Equal(t, int64(1), PaiseFromRupees(0.01))
	assert.Equal(t, 12999.0, RupeesFromPaise(1299900))
	assert.Equal(t, 6499.5, RupeesFromPaise(649950))
}
