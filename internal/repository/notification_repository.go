package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Notification, error)
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Omit("Booking", "Customer").Create(n).Error
}

func (r *GormNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              model.NotificationStatusSent,
			"provider_message_id": providerMessageID,
			"sent_at":             at,
		}).Error
}

func (r *GormNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        model.NotificationStatusFailed,
			"error_message": reason,
		}).Error
}

func (r *GormNotificationRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Notification, error) {
	var out []model.Notification
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
