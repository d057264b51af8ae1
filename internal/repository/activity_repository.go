package repository

import (
	"context"
	"nihongo_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.DB.WithContext(ctx).Create(activity).Error
}

// FindRecent returns at most limit activities, newest first.
func (r *ActivityRepository) FindRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	activities := []model.Activity{}
	err := r.DB.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
