package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/repository"
)

// Публичный список пакетов услуг.
type CatalogService struct {
	services repository.ServiceRepository
	log      *zap.Logger
}

func NewCatalogService(store repository.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{services: store.Repos().Services, log: log}
}

func (s *CatalogService) ListActive(ctx context.Context) ([]model.Service, error) {
	items, err := s.services.ListActive(ctx)
	if err != nil {
		s.log.Error("list services", zap.Error(err))
		return nil, &InternalError{Op: "list services", Err: err}
	}
	return items, nil
}
