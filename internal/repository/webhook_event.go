package repository

import (
	"context"

	"gorm.io/gorm"

	"shoestore-backend/internal/model"
)

type WebhookEventRepository interface {
	Record(ctx context.Context, event *model.WebhookEvent) error
	// CountUnmatched supports the health endpoint: a growing number means
	// the aggregator is pushing events we cannot attribute to an order.
	CountUnmatched(ctx context.Context) (int64, error)
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) Record(ctx context.Context, event *model.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookEventRepositoryImpl) CountUnmatched(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("matched = ?", false).
		Count(&count).Error

	return count, err
}
