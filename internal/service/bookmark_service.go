package service

import (
	"context"
	"errors"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/util"
	"nihongo_backend/pkg/monitoring"

	"gorm.io/gorm"
)

const (
	BookmarkAdded   = "added"
	BookmarkRemoved = "removed"
)

type BookmarkService struct {
	BookmarkRepo *repository.BookmarkRepository
	Activities   *ActivityService
}

func NewBookmarkService(bookmarkRepo *repository.BookmarkRepository, activities *ActivityService) *BookmarkService {
	return &BookmarkService{BookmarkRepo: bookmarkRepo, Activities: activities}
}

// Toggle removes the bookmark matching (username, q) or creates one. The
// lookup and the write are separate statements, so two concurrent toggles of
// the same question can both insert.
func (s *BookmarkService) Toggle(ctx context.Context, bookmark *model.Bookmark) (string, error) {
	if bookmark.Username == "" || bookmark.Q == "" {
		return "", util.Validationf("username and q are required")
	}

	existing, err := s.BookmarkRepo.FindByQuestion(ctx, bookmark.Username, bookmark.Q)
	switch {
	case err == nil:
		if err := s.BookmarkRepo.DeleteByID(ctx, existing.ID); err != nil {
			return "", err
		}
		monitoring.BookmarkToggles.WithLabelValues(BookmarkRemoved).Inc()
		return BookmarkRemoved, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	bookmark.ID = ""
	if err := s.BookmarkRepo.Create(ctx, bookmark); err != nil {
		return "", err
	}
	s.Activities.Record(ctx, bookmark.Username, model.ActionBookmarked, bookmark.Q)
	monitoring.BookmarkToggles.WithLabelValues(BookmarkAdded).Inc()
	return BookmarkAdded, nil
}

func (s *BookmarkService) ListForUser(ctx context.Context, username string) ([]model.Bookmark, error) {
	return s.BookmarkRepo.FindByUsername(ctx, username)
}
