package model

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех сущностей и создаёт частичный
// уникальный индекс: не больше одной активной брони на дату.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Customer{},
		&Service{},
		&Booking{},
		&Notification{},
		&BookingEvent{},
		&Gig{},
	); err != nil {
		return err
	}

	// Синтаксис одинаковый для postgres и sqlite.
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON dj_bookings (event_date) WHERE status IN ('%s', '%s')",
		activeBookingIndexName,
		BookingStatusPending,
		BookingStatusConfirmed,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", activeBookingIndexName, err)
	}
	return nil
}
