package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/model"
)

type GigRepository interface {
	Create(ctx context.Context, gig *model.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Gig, error)
	// Свежие даты сверху. Пустой статус: все.
	List(ctx context.Context, status model.GigStatus) ([]model.Gig, error)
	// Перезаписывает все поля афиши.
	Update(ctx context.Context, gig *model.Gig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormGigRepository struct {
	db *gorm.DB
}

func NewGormGigRepository(db *gorm.DB) *GormGigRepository {
	return &GormGigRepository{db: db}
}

func (r *GormGigRepository) Create(ctx context.Context, gig *model.Gig) error {
	return r.db.WithContext(ctx).Create(gig).Error
}

func (r *GormGigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Gig, error) {
	var g model.Gig
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GormGigRepository) List(ctx context.Context, status model.GigStatus) ([]model.Gig, error) {
	q := r.db.WithContext(ctx).Model(&model.Gig{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	gigs := []model.Gig{}
	err := q.Order("date DESC").
		Order("created_at DESC").
		Find(&gigs).Error
	if err != nil {
		return nil, err
	}
	return gigs, nil
}

func (r *GormGigRepository) Update(ctx context.Context, gig *model.Gig) error {
	tx := r.db.WithContext(ctx).
		Model(gig).
		Select("*").
		Omit("id", "created_at").
		Updates(gig)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormGigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Delete(&model.Gig{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
