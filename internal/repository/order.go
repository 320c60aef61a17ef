package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shoestore-backend/internal/model"
)

// StatusUpdate is the delta a courier webhook wants to apply. Zero-value
// fields are left untouched; DeliveredAt is only ever set once.
type StatusUpdate struct {
	Status      model.OrderStatus
	AWBCode     string
	CourierName string
	DeliveredAt *time.Time
}

func (u StatusUpdate) Empty() bool {
	return u.Status == "" && u.AWBCode == "" && u.CourierName == "" && u.DeliveredAt == nil
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	FindByShiprocketOrderID(ctx context.Context, shiprocketOrderID int64) (*model.Order, error)
	FindByAWB(ctx context.Context, awbCode string) (*model.Order, error)

	// ClaimBooking flips booking_status pending→attempted. A false return
	// means someone else already claimed it; the caller must not book.
	ClaimBooking(ctx context.Context, orderID string) (bool, error)
	SetBookingBooked(ctx context.Context, orderID string, shiprocketOrderID, shipmentID int64, awbCode, courierName string) error
	SetBookingFailed(ctx context.Context, orderID string) error
	ListPendingBookings(ctx context.Context, limit int) ([]*model.Order, error)

	// ApplyStatus, Cancel and SetReturnRequested are compare-and-swap
	// mutations: they only touch the row if version still matches (and the
	// state guard holds) and report whether a row was updated.
	ApplyStatus(ctx context.Context, orderID string, version int64, update StatusUpdate) (bool, error)
	Cancel(ctx context.Context, orderID string, version int64) (bool, error)
	SetReturnRequested(ctx context.Context, orderID string, version int64, reason string, returnShiprocketOrderID int64) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDForUser(ctx context.Context, orderID, userID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindByShiprocketOrderID(ctx context.Context, shiprocketOrderID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("shiprocket_order_id = ?", shiprocketOrderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByAWB(ctx context.Context, awbCode string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("awb_code = ?", awbCode).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ClaimBooking(ctx context.Context, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND booking_status = ?", orderID, model.BookingPending).
		Updates(map[string]interface{}{
			"booking_status": model.BookingAttempted,
			"updated_at":     time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) SetBookingBooked(ctx context.Context, orderID string, shiprocketOrderID, shipmentID int64, awbCode, courierName string) error {
	updates := map[string]interface{}{
		"booking_status":         model.BookingBooked,
		"shiprocket_order_id":    shiprocketOrderID,
		"shiprocket_shipment_id": shipmentID,
		"updated_at":             time.Now(),
	}
	if awbCode != "" {
		updates["awb_code"] = awbCode
	}
	if courierName != "" {
		updates["courier_name"] = courierName
	}

	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *orderRepoImpl) SetBookingFailed(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"booking_status": model.BookingFailed,
			"updated_at":     time.Now(),
		}).Error
}

func (r *orderRepoImpl) ListPendingBookings(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("booking_status = ? AND order_status = ?", model.BookingPending, model.OrderProcessing).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ApplyStatus(ctx context.Context, orderID string, version int64, update StatusUpdate) (bool, error) {
	updates := map[string]interface{}{
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	}
	if update.Status != "" {
		updates["order_status"] = update.Status
	}
	if update.AWBCode != "" {
		updates["awb_code"] = update.AWBCode
	}
	if update.CourierName != "" {
		updates["courier_name"] = update.CourierName
	}
	if update.DeliveredAt != nil {
		updates["delivered_at"] = *update.DeliveredAt
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(updates)

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) Cancel(ctx context.Context, orderID string, version int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ? AND order_status = ?", orderID, version, model.OrderProcessing).
		Updates(map[string]interface{}{
			"order_status": model.OrderCancelled,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) SetReturnRequested(ctx context.Context, orderID string, version int64, reason string, returnShiprocketOrderID int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where(`
			id = ?
			AND version = ?
			AND order_status = ?
			AND return_status = ?
		`,
			orderID, version, model.OrderDelivered, model.ReturnNone,
		).
		Updates(map[string]interface{}{
			"return_status":              model.ReturnRequested,
			"return_reason":              reason,
			"return_shiprocket_order_id": returnShiprocketOrderID,
			"version":                    gorm.Expr("version + 1"),
			"updated_at":                 time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}
