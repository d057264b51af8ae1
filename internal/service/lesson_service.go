package service

import (
	"context"
	"errors"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/util"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errLessonNotFound = util.NotFoundf("Lesson not found")

type LessonService struct {
	LessonRepo *repository.LessonRepository
	Authz      Authorizer
}

func NewLessonService(lessonRepo *repository.LessonRepository, authz Authorizer) *LessonService {
	return &LessonService{LessonRepo: lessonRepo, Authz: authz}
}

// LessonUpdate carries the replaceable parts of a lesson. Nil fields are left
// unchanged.
type LessonUpdate struct {
	Title   *string
	Content *[]model.ContentItem
}

func (s *LessonService) List(ctx context.Context) ([]model.Lesson, error) {
	return s.LessonRepo.FindAll(ctx)
}

func (s *LessonService) Create(ctx context.Context, caller model.Caller, lesson *model.Lesson) error {
	if err := s.Authz.Authorize(caller, ActionCreateLesson); err != nil {
		return err
	}

	lesson.ID = ""
	lesson.Normalize()
	if err := lesson.Validate(); err != nil {
		return err
	}
	return s.LessonRepo.Create(ctx, lesson)
}

func (s *LessonService) Update(ctx context.Context, caller model.Caller, id string, update LessonUpdate) (*model.Lesson, error) {
	if err := s.Authz.Authorize(caller, ActionUpdateLesson); err != nil {
		return nil, err
	}

	lesson, err := s.LessonRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errLessonNotFound
		}
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, util.Validationf("title must not be blank")
		}
		lesson.Title = *update.Title
	}
	if update.Content != nil {
		if err := model.ValidateContent(*update.Content); err != nil {
			return nil, err
		}
		lesson.Content = datatypes.JSONSlice[model.ContentItem](*update.Content)
	}
	lesson.Normalize()

	if err := s.LessonRepo.UpdateContent(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete removes the lesson and its results. Bookmarks and activities that
// mention the lesson are kept.
func (s *LessonService) Delete(ctx context.Context, caller model.Caller, id string) (int64, error) {
	if err := s.Authz.Authorize(caller, ActionDeleteLesson); err != nil {
		return 0, err
	}

	removed, err := s.LessonRepo.DeleteWithResults(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errLessonNotFound
	}
	return removed, err
}
