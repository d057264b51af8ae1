package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/app"
	"nihongo_backend/internal/config"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/quiz"
	"nihongo_backend/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, mutate ...func(*config.Config)) *Client {
	t.Helper()
	cfg := testutil.Config()
	for _, m := range mutate {
		m(cfg)
	}
	srv := httptest.NewServer(app.New(cfg, testutil.NewDB(t), nil).Router)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func TestClient_LessonLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	_, err := c.Login(ctx, "sensei", model.Teacher)
	require.NoError(t, err)

	created, err := c.CreateLesson(ctx, model.Lesson{
		Title:   "Animals",
		Content: []model.ContentItem{{Japanese: "ねこ", Romaji: "neko", English: "cat", Options: []string{"cat", "dog"}}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := c.UpdateLesson(ctx, created.ID, "Animals I", nil)
	require.NoError(t, err)
	assert.Equal(t, "Animals I", updated.Title)
	assert.Len(t, updated.Content, 1)

	lessons, err := c.ListLessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)

	_, err = c.SubmitResult(ctx, model.Result{Username: "hana", LessonID: created.ID, Score: 50, Status: model.StatusFailed})
	require.NoError(t, err)

	deleted, err := c.DeleteLesson(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.DeletedResultsCount)

	_, err = c.DeleteLesson(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Lesson not found", apiErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	user, err := c.Login(ctx, "hana", "")
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)

	name, role := c.Identity()
	assert.Equal(t, "hana", name)
	assert.Equal(t, model.Student, role)

	c.Logout()
	name, _ = c.Identity()
	assert.Empty(t, name)

	_, err = c.Login(ctx, "  ", model.Student)
	assert.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestClient_SessionTokenIsSent(t *testing.T) {
	ctx := context.Background()
	c := newServer(t, func(cfg *config.Config) {
		cfg.Auth.Mode = config.AuthModeEnforce
	})

	_, err := c.Login(ctx, "admin", model.Admin)
	require.NoError(t, err)

	msg, err := c.ResetSystem(ctx)
	require.NoError(t, err)
	assert.Equal(t, "System has been fully reset. Admin account preserved.", msg)

	c.Logout()
	_, err = c.ResetSystem(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestClient_StudentResultsEmpty(t *testing.T) {
	c := newServer(t)
	results, err := c.StudentResults(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestClient_BookmarksAndUsers(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	_, err := c.Login(ctx, "hana", model.Student)
	require.NoError(t, err)

	action, err := c.ToggleBookmark(ctx, model.Bookmark{Username: "hana", LessonID: "L1", Q: "いぬ", A: "dog"})
	require.NoError(t, err)
	assert.Equal(t, "added", action)

	list, err := c.Bookmarks(ctx, "hana")
	require.NoError(t, err)
	require.Len(t, list, 1)

	msg, err := c.DeleteUser(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, "All records of user hana have been successfully deleted.", msg)

	list, err = c.Bookmarks(ctx, "hana")
	require.NoError(t, err)
	assert.Empty(t, list)

	activities, err := c.ListActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}

func seedClass(t *testing.T, c *Client) string {
	t.Helper()
	ctx := context.Background()

	_, err := c.Login(ctx, "sensei", model.Teacher)
	require.NoError(t, err)
	lesson, err := c.CreateLesson(ctx, model.Lesson{
		Title:   "Kana",
		Content: []model.ContentItem{{Japanese: "あ", English: "a"}},
	})
	require.NoError(t, err)

	for _, r := range []model.Result{
		{Username: "hana", LessonID: lesson.ID, LessonTitle: "Kana", Score: 90, Status: model.StatusCompleted},
		{Username: "ken", LessonID: lesson.ID, LessonTitle: "Kana", Score: 30, Status: model.StatusFailed},
	} {
		_, err := c.SubmitResult(ctx, r)
		require.NoError(t, err)
	}
	for _, b := range []model.Bookmark{
		{Username: "hana", LessonID: lesson.ID, Q: "あ", A: "a"},
		{Username: "ken", LessonID: lesson.ID, Q: "あ", A: "a"},
	} {
		_, err := c.ToggleBookmark(ctx, b)
		require.NoError(t, err)
	}
	for _, name := range []string{"hana", "ken"} {
		_, err := c.Login(ctx, name, model.Student)
		require.NoError(t, err)
	}
	return lesson.ID
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	lessonID := seedClass(t, c)

	t.Run("teacher sees every bookmark", func(t *testing.T) {
		_, err := c.Login(ctx, "sensei", model.Teacher)
		require.NoError(t, err)

		snap, err := c.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Lessons, 1)
		assert.Len(t, snap.Bookmarks, 2)
		assert.Equal(t, []string{lessonID}, snap.Completed.IDs("hana"))
		assert.Equal(t, []string{lessonID}, snap.Failed.IDs("ken"))
		assert.Equal(t, []aggregate.WordCount{{Word: "あ", Count: 2, Meaning: "a"}}, snap.TopWords)
		assert.Equal(t, []aggregate.LessonTally{{Name: "Kana", Pass: 1, Fail: 1, Total: 2}}, snap.LessonStats)
		assert.Equal(t, []aggregate.Question{{Q: "あ", A: "a", Options: []string{"a"}}}, snap.QuestionBank[lessonID])
	})

	t.Run("student sees their own bookmarks", func(t *testing.T) {
		_, err := c.Login(ctx, "ken", model.Student)
		require.NoError(t, err)

		snap, err := c.LoadSnapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Bookmarks, 1)
		assert.Equal(t, "ken", snap.Bookmarks[0].Username)
	})

	t.Run("server side dashboard agrees", func(t *testing.T) {
		snap, err := c.Dashboard(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Bookmarks, 2)
		assert.Equal(t, []string{lessonID}, snap.Completed.IDs("hana"))
	})
}

func TestLoadSnapshot_FailsAsAWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/results" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.LoadSnapshot(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal server error", apiErr.Message)
}

func TestAPIError_FallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListLessons(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestFileMirror(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mirror")
	m := FileMirror{Dir: dir}

	require.NoError(t, m.Store(KeyFailed, map[string][]string{"ken": {"L1"}}))
	require.NoError(t, m.Store(KeyFailed, map[string][]string{"ken": {"L1", "L2"}}))

	data, err := os.ReadFile(m.Path(KeyFailed))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ken":["L1","L2"]}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestMirrorModel(t *testing.T) {
	snap := aggregate.Build(aggregate.Collections{
		Lessons:   []model.Lesson{{ID: "L1", Title: "Kana", Content: []model.ContentItem{{Japanese: "あ", English: "a"}}}},
		Users:     []model.User{{Username: "hana", Role: model.Student}},
		Bookmarks: []model.Bookmark{{ID: "b1", Username: "hana", Q: "あ", A: "a"}},
	}, time.Now())

	qm := quiz.NewModel()
	qm, _ = qm.Update(quiz.LoggedIn{User: model.User{Username: "hana", Role: model.Student}})
	qm, _ = qm.Update(quiz.SnapshotLoaded{Snapshot: snap})

	m := FileMirror{Dir: t.TempDir()}
	require.NoError(t, MirrorModel(m, qm))

	for _, key := range []string{KeyBookmarks, KeyActivities, KeyCompleted, KeyFailed, KeyUserRoles, KeyLessons, KeyQuizData} {
		assert.FileExists(t, m.Path(key))
	}

	data, err := os.ReadFile(m.Path(KeyUserRoles))
	require.NoError(t, err)
	assert.JSONEq(t, `{"hana":"student"}`, string(data))
}

type failingMirror struct{ calls int }

func (f *failingMirror) Store(key string, value interface{}) error {
	f.calls++
	return errors.New("disk full: " + key)
}

func TestMirrorModel_TriesEveryKey(t *testing.T) {
	f := &failingMirror{}
	err := MirrorModel(f, quiz.NewModel())
	require.Error(t, err)
	assert.Equal(t, 7, f.calls)
	assert.Contains(t, err.Error(), KeyQuizData)
	assert.Contains(t, err.Error(), KeyBookmarks)
}

func TestRanking_AfterCompletedLessonDeleted(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	kana := seedClass(t, c)

	_, err := c.Login(ctx, "sensei", model.Teacher)
	require.NoError(t, err)
	numbers, err := c.CreateLesson(ctx, model.Lesson{
		Title:   "Numbers",
		Content: []model.ContentItem{{Japanese: "いち", English: "1"}},
	})
	require.NoError(t, err)
	_, err = c.SubmitResult(ctx, model.Result{Username: "hana", LessonID: numbers.ID, LessonTitle: "Numbers", Score: 100, Status: model.StatusCompleted})
	require.NoError(t, err)

	before, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, before.Ranking)
	assert.Equal(t, aggregate.RankEntry{Name: "hana", ValidCompletedCount: 2}, before.Ranking[0])

	_, err = c.DeleteLesson(ctx, kana)
	require.NoError(t, err)

	after, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, after.Ranking)
	assert.Equal(t, aggregate.RankEntry{Name: "hana", ValidCompletedCount: 1}, after.Ranking[0])

	// Completion sets held from before the delete still name the lesson; the
	// ranking over the current lessons ignores it.
	assert.Equal(t, []string{kana, numbers.ID}, before.Completed.IDs("hana"))
	ranking := aggregate.StudentRanking(after.Lessons, nil, before.Completed, before.Failed)
	require.NotEmpty(t, ranking)
	assert.Equal(t, aggregate.RankEntry{Name: "hana", ValidCompletedCount: 1}, ranking[0])
}

func TestRun_LogoutStopsSendingIdentity(t *testing.T) {
	ctx := context.Background()
	c := newServer(t, func(cfg *config.Config) {
		cfg.Auth.Mode = config.AuthModeEnforce
	})

	msg := c.Run(ctx, quiz.LoginCommand{Username: "admin", Role: model.Admin})
	loggedIn, ok := msg.(quiz.LoggedIn)
	require.True(t, ok, "got %#v", msg)

	m := quiz.NewModel()
	m, _ = m.Update(loggedIn)
	assert.IsType(t, quiz.Notify{}, c.Run(ctx, quiz.ResetSystemCommand{}))

	m, cmds := m.Update(quiz.Logout{})
	assert.Empty(t, m.Username)
	require.Equal(t, []quiz.Command{quiz.LogoutCommand{}}, cmds)
	for _, cmd := range cmds {
		assert.Nil(t, c.Run(ctx, cmd))
	}

	name, role := c.Identity()
	assert.Empty(t, name)
	assert.Empty(t, role)

	failed, ok := c.Run(ctx, quiz.ResetSystemCommand{}).(quiz.CommandFailed)
	require.True(t, ok)
	var apiErr *APIError
	require.ErrorAs(t, failed.Err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestRun_ReportsOutcomes(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	require.IsType(t, quiz.LoggedIn{}, c.Run(ctx, quiz.LoginCommand{Username: "sensei", Role: model.Teacher}))

	assert.Nil(t, c.Run(ctx, quiz.CreateLessonCommand{Lesson: model.Lesson{Title: "Kana"}}))
	loaded, ok := c.Run(ctx, quiz.LoadSnapshotCommand{}).(quiz.SnapshotLoaded)
	require.True(t, ok)
	require.Len(t, loaded.Snapshot.Lessons, 1)

	assert.Equal(t, quiz.Notify{Text: "Bookmark added"},
		c.Run(ctx, quiz.ToggleBookmarkCommand{Bookmark: model.Bookmark{Username: "sensei", Q: "あ", A: "a"}}))
	assert.Equal(t, quiz.Notify{Text: "Lesson and associated results deleted successfully (0 results)"},
		c.Run(ctx, quiz.DeleteLessonCommand{LessonID: loaded.Snapshot.Lessons[0].ID}))
	assert.IsType(t, quiz.CommandFailed{}, c.Run(ctx, quiz.DeleteLessonCommand{LessonID: "missing"}))
}
