package service

import (
	"context"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/util"
	"nihongo_backend/pkg/logger"

	"go.uber.org/zap"
)

type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{ActivityRepo: activityRepo}
}

// Record appends an activity. It is a side effect of another write, so a
// failure is logged and never returned.
func (s *ActivityService) Record(ctx context.Context, username, action, lessonTitle string) {
	activity := &model.Activity{
		Username:    username,
		Action:      action,
		LessonTitle: lessonTitle,
	}
	if err := s.ActivityRepo.Create(ctx, activity); err != nil {
		logger.Log.Warn("Failed to record activity",
			zap.String("username", username),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Recent returns the latest activities, newest first.
func (s *ActivityService) Recent(ctx context.Context) ([]model.Activity, error) {
	return s.ActivityRepo.FindRecent(ctx, util.ActivityPageSize)
}
