package service

import "errors"

// Sentinel errors handlers translate into HTTP status codes.
var (
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	ErrCourierNotConfigured = errors.New("shipping aggregator is not configured")

	ErrSignatureMismatch = errors.New("payment verification failed")

	ErrOrderNotFound = errors.New("order not found")

	ErrNotCancellable = errors.New("order cannot be cancelled because it has already been shipped or processed")

	ErrNotDelivered           = errors.New("order must be delivered before it can be returned")
	ErrReturnAlreadyRequested = errors.New("return already requested for this order")
	ErrReturnWindowExpired    = errors.New("return window has expired")

	ErrMissingWebhookIdentifiers = errors.New("webhook carries neither order_id nor awb")

	// ErrConflict surfaces when a compare-and-swap loses every retry.
	// Callers are expected to retry the whole request.
	ErrConflict = errors.New("order was modified concurrently, retry")

	ErrNoCourierAvailable = errors.New("no courier service available for this pincode")
)
