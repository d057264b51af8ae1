package service

import (
	"context"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/util"
	"nihongo_backend/pkg/monitoring"
)

type ResultService struct {
	ResultRepo *repository.ResultRepository
	LessonRepo *repository.LessonRepository
	Activities *ActivityService
}

func NewResultService(resultRepo *repository.ResultRepository, lessonRepo *repository.LessonRepository, activities *ActivityService) *ResultService {
	return &ResultService{
		ResultRepo: resultRepo,
		LessonRepo: lessonRepo,
		Activities: activities,
	}
}

// Submit stores a result as given and then logs the attempt. The two writes
// are independent: the result stands even if the activity cannot be written.
func (s *ResultService) Submit(ctx context.Context, result *model.Result) error {
	if result.Username == "" || result.LessonID == "" {
		return util.Validationf("username and lessonId are required")
	}
	if !result.Status.Valid() {
		return util.Validationf("status must be completed or failed")
	}

	result.ID = ""
	if err := s.ResultRepo.Create(ctx, result); err != nil {
		return err
	}
	monitoring.QuizResults.WithLabelValues(string(result.Status)).Inc()

	action := model.ActionAttempted
	if result.Status == model.StatusCompleted {
		action = model.ActionCompleted
	}
	title := result.LessonTitle
	if title == "" {
		title = util.DefaultLessonTitle
	}
	s.Activities.Record(ctx, result.Username, action, title)
	return nil
}

func (s *ResultService) List(ctx context.Context) ([]model.Result, error) {
	return s.ResultRepo.FindAll(ctx)
}

// ListForStudent returns a student's results, newest first, with the lesson
// title resolved. Results of deleted lessons carry a nil lesson.
func (s *ResultService) ListForStudent(ctx context.Context, username string) ([]model.StudentResult, error) {
	results, err := s.ResultRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, util.NotFoundf("No records found for this student.")
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.LessonID)
	}
	refs, err := s.LessonRepo.FindRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.StudentResult, 0, len(results))
	for _, r := range results {
		sr := model.StudentResult{Result: r}
		if ref, ok := refs[r.LessonID]; ok {
			ref := ref
			sr.Lesson = &ref
		}
		out = append(out, sr)
	}
	return out, nil
}
