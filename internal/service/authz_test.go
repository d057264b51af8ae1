package service

import (
	"context"
	"nihongo_backend/internal/config"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Authorize(t *testing.T) {
	verified := func(role model.UserRole) model.Caller {
		return model.Caller{Username: "x", Role: role, Verified: true}
	}

	tests := []struct {
		name   string
		mode   string
		caller model.Caller
		action Action
		allow  bool
	}{
		{name: "open mode allows anonymous reset", mode: config.AuthModeOpen, caller: model.Caller{}, action: ActionResetSystem, allow: true},
		{name: "open mode allows student lesson delete", mode: config.AuthModeOpen, caller: model.Caller{Role: model.Student}, action: ActionDeleteLesson, allow: true},
		{name: "teacher creates lesson", mode: config.AuthModeEnforce, caller: verified(model.Teacher), action: ActionCreateLesson, allow: true},
		{name: "admin updates lesson", mode: config.AuthModeEnforce, caller: verified(model.Admin), action: ActionUpdateLesson, allow: true},
		{name: "student cannot create lesson", mode: config.AuthModeEnforce, caller: verified(model.Student), action: ActionCreateLesson},
		{name: "unverified teacher header is not enough", mode: config.AuthModeEnforce, caller: model.Caller{Role: model.Teacher}, action: ActionCreateLesson},
		{name: "teacher cannot delete users", mode: config.AuthModeEnforce, caller: verified(model.Teacher), action: ActionDeleteUser},
		{name: "admin deletes users", mode: config.AuthModeEnforce, caller: verified(model.Admin), action: ActionDeleteUser, allow: true},
		{name: "admin resets", mode: config.AuthModeEnforce, caller: verified(model.Admin), action: ActionResetSystem, allow: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewGuard(tc.mode).Authorize(tc.caller, tc.action)
			if tc.allow {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, util.ErrForbidden)
		})
	}
}

func TestGuard_AuthorizeRegistration(t *testing.T) {
	g := NewGuard(config.AuthModeEnforce)
	assert.NoError(t, g.AuthorizeRegistration("Admin", model.Admin))
	assert.NoError(t, g.AuthorizeRegistration("bob", model.Teacher))
	assert.ErrorIs(t, g.AuthorizeRegistration("bob", model.Admin), util.ErrForbidden)

	g.SetMode(config.AuthModeOpen)
	assert.False(t, g.Enforcing())
	assert.NoError(t, g.AuthorizeRegistration("bob", model.Admin))
}

func TestServices_EnforceMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.guard.SetMode(config.AuthModeEnforce)

	student := model.Caller{Username: "hana", Role: model.Student, Verified: true}
	teacher := model.Caller{Username: "sensei", Role: model.Teacher, Verified: true}

	err := f.lessons.Create(ctx, student, &model.Lesson{Title: "Nope"})
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Zero(t, f.count(t, &model.Lesson{}))

	l := &model.Lesson{Title: "Kana"}
	require.NoError(t, f.lessons.Create(ctx, teacher, l))

	_, err = f.lessons.Delete(ctx, student, l.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.EqualValues(t, 1, f.count(t, &model.Lesson{}))

	_, _, err = f.users.Login(ctx, "mallory", model.Admin)
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Zero(t, f.count(t, &model.User{}))

	assert.ErrorIs(t, f.system.Reset(ctx, teacher), util.ErrForbidden)
}
