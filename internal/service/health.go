package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/store"
)

type HealthService struct {
	store store.Store
}

func NewHealthService(store store.Store) *HealthService {
	return &HealthService{store: store}
}

func (s *HealthService) Ready(ctx context.Context) bool {
	if err := s.store.Ping(ctx); err != nil {
		zap.S().Named("health_service").Warnf("database ping failed: %s", err)
		return false
	}
	return true
}
