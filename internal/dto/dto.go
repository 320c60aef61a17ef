package dto

import "encoding/json"

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"` // rupees
	Quantity  int32   `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color,omitempty"`
	Image     string  `json:"image"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

// CheckoutOrder is what the storefront sends alongside the gateway callback:
// the cart contents the gateway order was created for.
type CheckoutOrder struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalAmount     float64         `json:"totalAmount"` // rupees
	ShippingCost    float64         `json:"shippingCost"`
	Email           string          `json:"email"`
}

type CreatePaymentOrderRequest struct {
	Amount float64 `json:"amount"` // rupees
}

type CreatePaymentOrderResponse struct {
	OrderID string `json:"orderId"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string         `json:"razorpay_order_id"`
	RazorpayPaymentID string         `json:"razorpay_payment_id"`
	RazorpaySignature string         `json:"razorpay_signature"`
	OrderDetails      *CheckoutOrder `json:"orderDetails"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
}

type ReturnOrderRequest struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type ReturnOrderResponse struct {
	Success       bool  `json:"success"`
	ReturnOrderID int64 `json:"returnOrderId"`
}

type ServiceabilityRequest struct {
	DeliveryPincode string  `json:"deliveryPincode"`
	Weight          float64 `json:"weight"` // kg
	COD             int     `json:"cod"`    // 0 or 1
}

type ServiceabilityResponse struct {
	Success     bool    `json:"success"`
	CourierName string  `json:"courier_name"`
	Rate        float64 `json:"rate"`
	ETD         string  `json:"etd"`
}

// CourierWebhookEvent is the inbound Shiprocket push. order_id arrives as a
// number or a string depending on the event source, hence json.Number.
type CourierWebhookEvent struct {
	OrderID       json.Number `json:"order_id"`
	AWB           string      `json:"awb"`
	CurrentStatus string      `json:"current_status"`
	CourierName   string      `json:"courier_name"`
	ETD           string      `json:"etd"`
}

type CourierWebhookResult struct {
	Received bool   `json:"received"`
	Matched  bool   `json:"matched"`
	Status   string `json:"status,omitempty"`
}
