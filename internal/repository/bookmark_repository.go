package repository

import (
	"context"
	"nihongo_backend/internal/model"

	"gorm.io/gorm"
)

type BookmarkRepository struct {
	DB *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

// FindByQuestion looks a bookmark up by (username, q). The lesson is
// deliberately not part of the key.
func (r *BookmarkRepository) FindByQuestion(ctx context.Context, username, q string) (*model.Bookmark, error) {
	var bookmark model.Bookmark
	err := r.DB.WithContext(ctx).
		Where("username = ? AND q = ?", username, q).
		First(&bookmark).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (r *BookmarkRepository) Create(ctx context.Context, bookmark *model.Bookmark) error {
	return r.DB.WithContext(ctx).Create(bookmark).Error
}

func (r *BookmarkRepository) DeleteByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Bookmark{}).Error
}

// FindByUsername returns a user's bookmarks, most recently created first.
func (r *BookmarkRepository) FindByUsername(ctx context.Context, username string) ([]model.Bookmark, error) {
	bookmarks := []model.Bookmark{}
	err := r.DB.WithContext(ctx).
		Where("username = ?", username).
		Order("id DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

// FindAll returns every bookmark in insertion order.
func (r *BookmarkRepository) FindAll(ctx context.Context) ([]model.Bookmark, error) {
	bookmarks := []model.Bookmark{}
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&bookmarks).Error
	return bookmarks, err
}
