package repository

import (
	"context"
	"nihongo_backend/internal/model"

	"gorm.io/gorm"
)

type SystemRepository struct {
	DB *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{DB: db}
}

// Reset wipes everything except the account named keep.
func (r *SystemRepository) Reset(ctx context.Context, keep string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username <> ?", keep).Delete(&model.User{}).Error; err != nil {
			return err
		}
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&model.Result{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		return all.Delete(&model.Activity{}).Error
	})
}

// Ping checks the database connection.
func (r *SystemRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
