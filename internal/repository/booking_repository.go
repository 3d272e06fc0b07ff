package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/model"
)

// Фильтр админского списка. Пустые поля не применяются.
type BookingFilter struct {
	Status model.BookingStatus
	From   *datatypes.Date
	To     *datatypes.Date
	Limit  int
	Offset int
}

// StatusTransition описывает переход from -> to.
type StatusTransition struct {
	From  model.BookingStatus
	To    model.BookingStatus
	At    time.Time
	Notes *string
}

type BookingRepository interface {
	// Создать новое бронирование.
	Create(ctx context.Context, booking *model.Booking) error
	// Получить бронирование по ID вместе с клиентом и услугой.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Есть ли на дату бронь в статусе pending/confirmed.
	ExistsActiveOnDate(ctx context.Context, date datatypes.Date) (bool, error)
	// Занятые даты по возрастанию, границы включительно, nil без ограничения.
	ListActiveDates(ctx context.Context, from, to *datatypes.Date) ([]datatypes.Date, error)
	// Условный переход статуса. false, если бронь уже не в статусе From.
	TransitionStatus(ctx context.Context, id uuid.UUID, t StatusTransition) (bool, error)
	MarkConfirmationSent(ctx context.Context, id uuid.UUID) error
	// Список для админки, новые сверху.
	List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	// Связи создаём отдельно, здесь только строка брони.
	err := r.db.WithContext(ctx).Omit("Customer", "Service").Create(booking).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrActiveBookingExists, booking.EventDateString())
	}
	return err
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) ExistsActiveOnDate(ctx context.Context, date datatypes.Date) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("event_date = ?", date).
		Where("status IN ?", model.ActiveBookingStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBookingRepository) ListActiveDates(ctx context.Context, from, to *datatypes.Date) ([]datatypes.Date, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status IN ?", model.ActiveBookingStatuses)
	if from != nil {
		q = q.Where("event_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("event_date <= ?", *to)
	}

	// частичный уникальный индекс гарантирует одну активную бронь на дату
	dates := []datatypes.Date{}
	if err := q.Order("event_date ASC").Pluck("event_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *GormBookingRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	t StatusTransition,
) (bool, error) {
	update := map[string]any{
		"status": t.To,
	}
	switch t.To {
	case model.BookingStatusConfirmed:
		update["confirmed_at"] = t.At
	case model.BookingStatusCancelled:
		update["cancelled_at"] = t.At
	}
	if t.Notes != nil {
		update["notes"] = *t.Notes
	}

	tx := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, t.From).
		Updates(update)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *GormBookingRepository) MarkConfirmationSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("confirmation_sent", true).
		Error
}

func (r *GormBookingRepository) List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("event_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("event_date <= ?", *f.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	err := q.Preload("Customer").
		Preload("Service").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
