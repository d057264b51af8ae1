package service

import (
	"context"
	"errors"
	"fmt"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/util"
	"nihongo_backend/pkg/monitoring"
	"strings"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	Activities *ActivityService
	Authz      Authorizer
}

func NewUserService(userRepo *repository.UserRepository, activities *ActivityService, authz Authorizer) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		Activities: activities,
		Authz:      authz,
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.UserRepo.FindAll(ctx)
}

// Login returns the user named username, creating it with role when it does
// not exist yet. The requested role is ignored for existing users. created
// reports whether a new account was made.
func (s *UserService) Login(ctx context.Context, username string, role model.UserRole) (*model.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, util.Validationf("username is required")
	}
	if role == "" {
		role = model.Student
	}
	if !role.Valid() {
		return nil, false, util.Validationf("role must be one of student, teacher, admin")
	}

	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		s.Activities.Record(ctx, username, model.ActionLogin, util.LoginActivityText)
		monitoring.Logins.WithLabelValues("returning").Inc()
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := s.Authz.AuthorizeRegistration(username, role); err != nil {
		return nil, false, err
	}

	user = &model.User{Username: username, Role: role}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login; the other request made the user.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := s.UserRepo.FindByUsername(ctx, username)
			if findErr != nil {
				return nil, false, findErr
			}
			s.Activities.Record(ctx, username, model.ActionLogin, util.LoginActivityText)
			monitoring.Logins.WithLabelValues("returning").Inc()
			return existing, false, nil
		}
		return nil, false, err
	}

	s.Activities.Record(ctx, username, model.ActionRegistered, util.RegisteredActivityText)
	monitoring.Logins.WithLabelValues("registered").Inc()
	return user, true, nil
}

// Delete removes a user with their results and bookmarks. Their activities
// stay in the feed.
func (s *UserService) Delete(ctx context.Context, caller model.Caller, username string) error {
	if err := s.Authz.Authorize(caller, ActionDeleteUser); err != nil {
		return err
	}

	err := s.UserRepo.DeleteWithRecords(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NotFoundf("User not found")
	}
	if err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	return nil
}
