package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/model"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	Create(ctx context.Context, service *model.Service) error
	ListActive(ctx context.Context) ([]model.Service, error)
	// Активная услуга с точным совпадением имени.
	FindActiveByName(ctx context.Context, name string) (*model.Service, error)
	// Первая активная услуга в каталоге.
	FirstActive(ctx context.Context) (*model.Service, error)
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormServiceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *GormServiceRepository) ListActive(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *GormServiceRepository) FindActiveByName(ctx context.Context, name string) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		Order("created_at ASC").
		First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormServiceRepository) FirstActive(ctx context.Context) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("name ASC").
		First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}
