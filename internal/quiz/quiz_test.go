package quiz

import (
	"errors"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questions(n int) []aggregate.Question {
	qs := make([]aggregate.Question, n)
	for i := range qs {
		answer := string(rune('a' + i))
		qs[i] = aggregate.Question{Q: "q" + answer, A: answer, Options: []string{answer, "wrong"}}
	}
	return qs
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, n, want int
	}{
		{0, 3, 0},
		{10, 3, 33},
		{20, 3, 67},
		{30, 3, 100},
		{10, 8, 13},
		{0, 0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Percentage(tc.score, tc.n), "score %d of %d", tc.score, tc.n)
	}
}

func TestGrade_Threshold(t *testing.T) {
	assert.Equal(t, model.StatusCompleted, Grade(40, 5).Status)
	assert.Equal(t, model.StatusFailed, Grade(30, 5).Status)
	// 7/9 rounds to 78
	assert.Equal(t, model.StatusFailed, Grade(70, 9).Status)
	// 4/5 is exactly 80
	assert.True(t, Grade(40, 5).Passed())
}

func TestSession_Answer(t *testing.T) {
	s, err := NewSession("L1", "Kana", questions(3))
	require.NoError(t, err)

	s, out := s.Answer("a")
	assert.Nil(t, out)
	assert.Equal(t, 10, s.Score())
	assert.Equal(t, 1, s.Index())

	s, out = s.Answer("A") // answers must match exactly
	assert.Nil(t, out)
	assert.Equal(t, 10, s.Score())

	s, out = s.Answer("c")
	require.NotNil(t, out)
	assert.Equal(t, 20, out.Score)
	assert.Equal(t, 67, out.Percentage)
	assert.Equal(t, model.StatusFailed, out.Status)
	assert.Equal(t, 2, s.Index())

	_, err = NewSession("L2", "Empty", nil)
	assert.ErrorIs(t, err, ErrEmptyLesson)
}

func TestDeck_FlipAndWrap(t *testing.T) {
	d, err := NewDeck("L1", questions(3))
	require.NoError(t, err)

	assert.Equal(t, "qa", d.Face())
	flipped := d.Flip()
	assert.Equal(t, "a", flipped.Face())
	assert.False(t, d.Flipped(), "Flip returns a new deck")

	d = flipped.Next()
	assert.False(t, d.Flipped())
	assert.Equal(t, 1, d.Index())

	d = d.Next().Next()
	assert.Equal(t, 0, d.Index())
	assert.Equal(t, "qa", d.Face())

	_, err = NewDeck("L2", nil)
	assert.ErrorIs(t, err, ErrEmptyLesson)
}

func loaded(t *testing.T, qs []aggregate.Question) Model {
	t.Helper()
	snap := aggregate.Build(aggregate.Collections{
		Lessons: []model.Lesson{{ID: "L1", Title: "Kana"}},
	}, time.Now())
	snap.QuestionBank = map[string][]aggregate.Question{"L1": qs}

	m := NewModel()
	m, cmds := m.Update(LoggedIn{User: model.User{Username: "hana", Role: model.Student}})
	assert.Equal(t, []Command{LoadSnapshotCommand{}}, cmds)
	m, _ = m.Update(SnapshotLoaded{Snapshot: snap})
	return m
}

func TestModel_LoginGuards(t *testing.T) {
	m := NewModel()

	next, cmds := m.Update(LoginRequested{Username: "mallory", Role: model.Admin})
	assert.Empty(t, cmds)
	assert.Equal(t, "Access denied", next.Notice)

	next, cmds = m.Update(LoginRequested{Username: " Admin ", Role: model.Admin})
	assert.Equal(t, []Command{LoginCommand{Username: "Admin", Role: model.Admin}}, cmds)
	assert.Empty(t, next.Notice)

	_, cmds = m.Update(LoginRequested{Username: " "})
	assert.Empty(t, cmds)
	assert.Equal(t, ViewLogin, m.View)
}

func TestModel_PassingQuiz(t *testing.T) {
	m := loaded(t, questions(2))
	m.Failed = m.Failed.With("hana", "L1")

	m, _ = m.Update(StartQuiz{LessonID: "L1"})
	require.Equal(t, ViewQuiz, m.View)
	assert.Equal(t, "Kana", m.Session.LessonTitle)

	m, cmds := m.Update(Answer{Option: "a"})
	assert.Empty(t, cmds)

	before := m
	m, cmds = m.Update(Answer{Option: "b"})
	require.Len(t, cmds, 2)
	submit, ok := cmds[0].(SubmitResultCommand)
	require.True(t, ok)
	assert.Equal(t, model.Result{
		Username:    "hana",
		LessonID:    "L1",
		LessonTitle: "Kana",
		Score:       100,
		Status:      model.StatusCompleted,
	}, submit.Result)
	assert.Equal(t, LoadSnapshotCommand{}, cmds[1])

	assert.Equal(t, ViewDashboard, m.View)
	assert.True(t, m.Completed.Has("hana", "L1"))
	assert.False(t, m.Failed.Has("hana", "L1"))
	assert.Contains(t, m.Notice, "100%")

	recent := m.Recent("hana")
	require.Len(t, recent, 1)
	assert.Equal(t, "You have passed the Kana quiz!", recent[0].Content)
	assert.Equal(t, "100%", recent[0].Score)

	// The previous model is untouched.
	assert.Equal(t, ViewQuiz, before.View)
	assert.True(t, before.Failed.Has("hana", "L1"))
	assert.Empty(t, before.Recent("hana"))
}

func TestModel_FailingQuizKeepsCompletion(t *testing.T) {
	m := loaded(t, questions(2))
	m.Completed = m.Completed.With("hana", "L1")

	m, _ = m.Update(StartQuiz{LessonID: "L1"})
	m, _ = m.Update(Answer{Option: "wrong"})
	m, cmds := m.Update(Answer{Option: "wrong"})
	require.Len(t, cmds, 2)
	assert.Equal(t, model.StatusFailed, cmds[0].(SubmitResultCommand).Result.Status)

	assert.Equal(t, ViewHome, m.View)
	assert.True(t, m.Failed.Has("hana", "L1"))
	assert.True(t, m.Completed.Has("hana", "L1"), "a failed retry does not undo a completion")
	assert.Equal(t, "Kana quiz failed", m.Recent("hana")[0].Content)
}

func TestModel_RecentIsCapped(t *testing.T) {
	m := loaded(t, questions(1))
	for i := 0; i < RecentLimit+2; i++ {
		m, _ = m.Update(StartQuiz{LessonID: "L1"})
		m, _ = m.Update(Answer{Option: "a"})
	}
	assert.Len(t, m.Recent("hana"), RecentLimit)
	assert.Len(t, m.RecentByUser()["hana"], RecentLimit)
}

func TestModel_Flashcards(t *testing.T) {
	m := loaded(t, questions(2))

	m, _ = m.Update(StartFlashcards{LessonID: "L1"})
	require.Equal(t, ViewFlashcard, m.View)

	m, _ = m.Update(FlipCard{})
	assert.Equal(t, "a", m.Deck.Face())

	m, cmds := m.Update(BookmarkCard{})
	assert.Equal(t, []Command{ToggleBookmarkCommand{Bookmark: model.Bookmark{
		Username: "hana", LessonID: "L1", Q: "qa", A: "a",
	}}}, cmds)

	m, _ = m.Update(NextCard{})
	m, _ = m.Update(NextCard{})
	assert.Equal(t, 0, m.Deck.Index())
	assert.False(t, m.Deck.Flipped())

	m, cmds = m.Update(GoHome{})
	assert.Equal(t, ViewHome, m.View)
	assert.Equal(t, []Command{LoadSnapshotCommand{}}, cmds)
}

func TestModel_EmptyLesson(t *testing.T) {
	m := loaded(t, nil)
	m, cmds := m.Update(StartQuiz{LessonID: "L1"})
	assert.Empty(t, cmds)
	assert.Equal(t, ViewHome, m.View)
	assert.NotEmpty(t, m.Notice)
}

func TestModel_AdminActions(t *testing.T) {
	m := NewModel()

	m, cmds := m.Update(RemoveUser{Username: model.AdminUsername})
	assert.Empty(t, cmds)
	assert.Equal(t, "You cannot delete the admin user!", m.Notice)

	_, cmds = m.Update(RemoveUser{Username: "ken"})
	assert.Equal(t, []Command{DeleteUserCommand{Username: "ken"}, LoadSnapshotCommand{}}, cmds)

	_, cmds = m.Update(AddLesson{Title: "  "})
	assert.Empty(t, cmds)

	_, cmds = m.Update(AddLesson{Title: " Colours "})
	require.Len(t, cmds, 2)
	assert.Equal(t, "Colours", cmds[0].(CreateLessonCommand).Lesson.Title)

	m, _ = m.Update(CommandFailed{Err: errors.New("api: 500 Internal server error")})
	assert.Equal(t, "api: 500 Internal server error", m.Notice)
}

func TestModel_LogoutClearsIdentity(t *testing.T) {
	m := loaded(t, []aggregate.Question{{Q: "あ", A: "a", Options: []string{"a"}}})

	next, cmds := m.Update(Logout{})
	assert.Equal(t, []Command{LogoutCommand{}}, cmds)
	assert.Empty(t, next.Username)
	assert.Empty(t, next.Role)
	assert.Equal(t, ViewLogin, next.View)
	assert.Equal(t, "hana", m.Username)
}
