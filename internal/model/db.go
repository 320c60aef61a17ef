package model

import "time"

type Order struct {
	ID     string `gorm:"primaryKey;size:64;not null"` // uuid
	UserID string `gorm:"size:64;index;not null"`      // auth subject, or "guest_user"
	Email  string `gorm:"size:128"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	ShipName    string `gorm:"size:128;not null"`
	ShipAddress string `gorm:"size:256;not null"`
	ShipCity    string `gorm:"size:64;not null"`
	ShipState   string `gorm:"size:64;not null"`
	ShipPincode string `gorm:"size:16;not null"`
	ShipPhone   string `gorm:"size:32;not null"`

	TotalAmount  int64 `gorm:"not null"` // paise
	ShippingCost int64 // paise

	PaymentID     string        `gorm:"size:64;index;not null"` // gateway payment id
	PaymentStatus PaymentStatus `gorm:"size:16;not null"`
	OrderStatus   OrderStatus   `gorm:"size:32;index;not null"`

	// Shiprocket
	BookingStatus        BookingStatus `gorm:"size:16;index;not null"`
	ShiprocketOrderID    int64         `gorm:"index"`
	ShiprocketShipmentID int64
	AWBCode              string `gorm:"size:64;index"`
	CourierName          string `gorm:"size:64"`

	ReturnStatus            ReturnStatus `gorm:"size:16;not null"`
	ReturnReason            string       `gorm:"size:256"`
	ReturnShiprocketOrderID int64

	// DeliveredAt is stamped exactly once, on the first webhook transition
	// into delivered. The return window is computed from it.
	DeliveredAt *time.Time

	// Version guards every mutation with a compare-and-swap so webhook
	// updates and user-initiated cancel/return requests cannot race.
	Version int64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID   string `gorm:"size:64;index;not null"`
	ProductID string `gorm:"size:64;not null"` // catalog sku
	Title     string `gorm:"size:128;not null"`
	UnitPrice int64  `gorm:"not null"` // paise
	Quantity  int32  `gorm:"not null"`
	Size      string `gorm:"size:16;not null"`
	Color     string `gorm:"size:32"`
	Image     string `gorm:"size:256"`

	CreatedAt time.Time
}

// WebhookEvent is an audit row per inbound courier webhook. Unmatched and
// unmapped events are the interesting ones operationally.
type WebhookEvent struct {
	ID                uint   `gorm:"primaryKey"`
	ShiprocketOrderID int64  `gorm:"index"`
	AWBCode           string `gorm:"size:64;index"`
	RawStatus         string `gorm:"size:128"`
	MappedStatus      string `gorm:"size:32"`
	Mapped            bool   // raw status was in the lookup table
	Matched           bool   // an order was found for the identifiers
	OrderID           string `gorm:"size:64;index"`
	CreatedAt         time.Time
}
