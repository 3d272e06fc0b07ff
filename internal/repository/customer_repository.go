package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/model"
)

type CustomerRepository interface {
	// Поиск по точному (регистрозависимому) email.
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	// Перезаписать имя, телефон и компанию.
	UpdateContacts(ctx context.Context, customer *model.Customer) error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrCustomerExists, customer.Email)
	}
	return err
}

func (r *GormCustomerRepository) UpdateContacts(ctx context.Context, customer *model.Customer) error {
	tx := r.db.WithContext(ctx).
		Model(customer).
		Select("first_name", "last_name", "phone", "company", "updated_at").
		Updates(customer)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
