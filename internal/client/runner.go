package client

import (
	"context"
	"fmt"
	"nihongo_backend/internal/quiz"
)

// Run performs one view-model command against the API and returns the
// message that reports its outcome, or nil when there is nothing to report.
func (c *Client) Run(ctx context.Context, cmd quiz.Command) quiz.Msg {
	switch cmd := cmd.(type) {
	case quiz.LoginCommand:
		user, err := c.Login(ctx, cmd.Username, cmd.Role)
		if err != nil {
			return quiz.CommandFailed{Err: err}
		}
		return quiz.LoggedIn{User: *user}
	case quiz.LogoutCommand:
		c.Logout()
	case quiz.LoadSnapshotCommand:
		snap, err := c.LoadSnapshot(ctx)
		if err != nil {
			return quiz.CommandFailed{Err: fmt.Errorf("load failed: %w", err)}
		}
		return quiz.SnapshotLoaded{Snapshot: snap}
	case quiz.SubmitResultCommand:
		if _, err := c.SubmitResult(ctx, cmd.Result); err != nil {
			return quiz.CommandFailed{Err: err}
		}
	case quiz.ToggleBookmarkCommand:
		action, err := c.ToggleBookmark(ctx, cmd.Bookmark)
		if err != nil {
			return quiz.CommandFailed{Err: err}
		}
		return quiz.Notify{Text: "Bookmark " + action}
	case quiz.CreateLessonCommand:
		if _, err := c.CreateLesson(ctx, cmd.Lesson); err != nil {
			return quiz.CommandFailed{Err: err}
		}
	case quiz.DeleteLessonCommand:
		out, err := c.DeleteLesson(ctx, cmd.LessonID)
		if err != nil {
			return quiz.CommandFailed{Err: err}
		}
		return quiz.Notify{Text: fmt.Sprintf("%s (%d results)", out.Message, out.DeletedResultsCount)}
	case quiz.DeleteUserCommand:
		msg, err := c.DeleteUser(ctx, cmd.Username)
		if err != nil {
			return quiz.CommandFailed{Err: err}
		}
		return quiz.Notify{Text: msg}
	case quiz.ResetSystemCommand:
		msg, err := c.ResetSystem(ctx)
		if err != nil {
			return quiz.CommandFailed{Err: err}
		}
		return quiz.Notify{Text: msg}
	}
	return nil
}
