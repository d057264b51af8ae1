package service

import (
	"context"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/pkg/logger"

	"go.uber.org/zap"
)

const ResetMessage = "System has been fully reset. Admin account preserved."

type SystemService struct {
	SystemRepo *repository.SystemRepository
	Authz      Authorizer
}

func NewSystemService(systemRepo *repository.SystemRepository, authz Authorizer) *SystemService {
	return &SystemService{SystemRepo: systemRepo, Authz: authz}
}

// Reset deletes every user except admin and all results, bookmarks and
// activities. Running it twice leaves the same state.
func (s *SystemService) Reset(ctx context.Context, caller model.Caller) error {
	if err := s.Authz.Authorize(caller, ActionResetSystem); err != nil {
		return err
	}
	if err := s.SystemRepo.Reset(ctx, model.AdminUsername); err != nil {
		return err
	}
	logger.Log.Info("System reset", zap.String("by", caller.Username))
	return nil
}

// Health pings the store and, when configured, the cache.
func (s *SystemService) Health(ctx context.Context, cache *repository.DashboardCacheRepository) map[string]error {
	status := map[string]error{
		"database": s.SystemRepo.Ping(ctx),
	}
	if cache != nil && cache.Enabled() {
		status["cache"] = cache.Ping(ctx)
	}
	return status
}
