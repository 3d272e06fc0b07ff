package repository

import (
	"context"

	"gorm.io/gorm"
)

// Набор репозиториев, привязанных к одному соединению
// или к одной транзакции.
type Repositories struct {
	Customers     CustomerRepository
	Services      ServiceRepository
	Bookings      BookingRepository
	Notifications NotificationRepository
	Events        EventRepository
	Gigs          GigRepository
}

// Единая точка доступа к хранилищу. Backend выбирается при старте.
type Store interface {
	Repos() Repositories
	// Transaction коммитит, если fn вернула nil, иначе откатывает.
	Transaction(ctx context.Context, fn func(r Repositories) error) error
	Ping(ctx context.Context) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Customers:     NewGormCustomerRepository(db),
		Services:      NewGormServiceRepository(db),
		Bookings:      NewGormBookingRepository(db),
		Notifications: NewGormNotificationRepository(db),
		Events:        NewGormEventRepository(db),
		Gigs:          NewGormGigRepository(db),
	}
}

func (s *GormStore) Repos() Repositories {
	return newRepositories(s.db)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(r Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
