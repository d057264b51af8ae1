package repository

import (
	"context"
	"nihongo_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// FindAll returns lessons in insertion order.
func (r *LessonRepository) FindAll(ctx context.Context) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

// UpdateContent replaces title and content of an existing lesson.
func (r *LessonRepository) UpdateContent(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).
		Model(lesson).
		Select("title", "content").
		Updates(map[string]interface{}{
			"title":   lesson.Title,
			"content": lesson.Content,
		}).Error
}

// DeleteWithResults removes the lesson and every result pointing at it in one
// transaction and returns the number of results removed. A missing lesson
// yields gorm.ErrRecordNotFound and leaves results untouched.
func (r *LessonRepository) DeleteWithResults(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Lesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		res = tx.Where("lesson_id = ?", id).Delete(&model.Result{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}

// FindRefs resolves lesson ids to {id, title} pairs.
func (r *LessonRepository) FindRefs(ctx context.Context, ids []string) (map[string]model.LessonRef, error) {
	refs := make(map[string]model.LessonRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var rows []model.LessonRef
	err := r.DB.WithContext(ctx).
		Model(&model.Lesson{}).
		Select("id", "title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}
