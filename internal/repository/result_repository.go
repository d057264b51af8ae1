package repository

import (
	"context"
	"nihongo_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *ResultRepository) FindAll(ctx context.Context) ([]model.Result, error) {
	results := []model.Result{}
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&results).Error
	return results, err
}

// FindByUsername returns a student's results, newest first.
func (r *ResultRepository) FindByUsername(ctx context.Context, username string) ([]model.Result, error) {
	results := []model.Result{}
	err := r.DB.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error
	return results, err
}
