package aggregate

import (
	"encoding/json"
	"nihongo_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessons(ids ...string) []model.Lesson {
	out := make([]model.Lesson, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Lesson{ID: id, Title: "Lesson " + id})
	}
	return out
}

func TestCompletionSets(t *testing.T) {
	results := []model.Result{
		{Username: "hana", LessonID: "L1", Status: model.StatusCompleted},
		{Username: "hana", LessonID: "L2", Status: model.StatusFailed},
		{Username: "hana", LessonID: "L1", Status: model.StatusCompleted},
		{Username: "ken", LessonID: "L1", Status: model.StatusFailed},
		{Username: "", LessonID: "L1", Status: model.StatusCompleted},
		{Username: "yui", LessonID: "", Status: model.StatusFailed},
		{Username: "hana", LessonID: "L3", Status: "unknown"},
	}

	completed, failed := CompletionSets(results)

	assert.Equal(t, []string{"hana"}, completed.Users())
	assert.Equal(t, []string{"L1"}, completed.IDs("hana"))
	assert.Equal(t, []string{"hana", "ken"}, failed.Users())
	assert.Equal(t, []string{"L2", "L3"}, failed.IDs("hana"))
	assert.Equal(t, []string{"L1"}, failed.IDs("ken"))
}

func TestLessonSets_AreImmutable(t *testing.T) {
	var s LessonSets
	a := s.With("hana", "L1")
	b := a.With("hana", "L2")
	c := b.Without("hana", "L1")

	assert.Zero(t, s.Len("hana"))
	assert.Equal(t, []string{"L1"}, a.IDs("hana"))
	assert.Equal(t, []string{"L1", "L2"}, b.IDs("hana"))
	assert.Equal(t, []string{"L2"}, c.IDs("hana"))
	assert.True(t, c.Has("hana", "L2"))
	assert.False(t, c.Has("hana", "L1"))
	assert.Empty(t, b.Drop("hana").Users())
	assert.Equal(t, []string{"hana"}, b.Users())

	ids := b.IDs("hana")
	ids[0] = "mutated"
	assert.Equal(t, "L1", b.IDs("hana")[0])
}

func TestLessonSets_JSON(t *testing.T) {
	s := LessonSets{}.With("ken", "L2").With("hana", "L1")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hana":["L1"],"ken":["L2"]}`, string(data))

	var back LessonSets
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"hana", "ken"}, back.Users())
	assert.Equal(t, []string{"L2"}, back.IDs("ken"))
}

func TestQuestionsFor(t *testing.T) {
	l := model.Lesson{ID: "L1", Content: []model.ContentItem{
		{Japanese: "いち", English: "One", Options: []string{"One", "Two", "Three"}},
		{Japanese: "に", English: "Two"},
	}}

	got := QuestionsFor(l)
	assert.Equal(t, []Question{
		{Q: "いち", A: "One", Options: []string{"One", "Two", "Three"}},
		{Q: "に", A: "Two", Options: []string{"Two"}},
	}, got)

	bank := QuestionBank([]model.Lesson{l, {ID: "L2"}})
	assert.Len(t, bank["L1"], 2)
	assert.Empty(t, bank["L2"])
}

func TestLessonTallies(t *testing.T) {
	ls := []model.Lesson{{ID: "L1", Title: "Kana"}, {ID: "L2", Title: "Numbers"}}
	results := []model.Result{
		{LessonID: "L1", Score: 60},
		{LessonID: "L1", Score: 59.9},
		{LessonID: "other", LessonTitle: "Kana", Score: 100},
		{LessonID: "L2", Score: 0},
	}

	assert.Equal(t, []LessonTally{
		{Name: "Kana", Pass: 2, Fail: 1, Total: 3},
		{Name: "Numbers", Pass: 0, Fail: 1, Total: 1},
	}, LessonTallies(ls, results))
}

func TestStudentRanking(t *testing.T) {
	ls := lessons("L1", "L2")
	var completed, failed LessonSets
	completed = completed.With("ken", "L1").With("hana", "L1").With("hana", "L2").With("hana", "deleted")
	failed = failed.With("yui", "L1")

	ranking := StudentRanking(ls, []string{"sora", "ken"}, completed, failed)

	assert.Equal(t, []RankEntry{
		{Name: "hana", ValidCompletedCount: 2},
		{Name: "ken", ValidCompletedCount: 1},
		{Name: "sora", ValidCompletedCount: 0},
		{Name: "yui", ValidCompletedCount: 0},
	}, ranking)

	t.Run("ties keep encounter order", func(t *testing.T) {
		var c LessonSets
		c = c.With("b", "L1").With("a", "L1")
		got := StudentRanking(ls, nil, c, LessonSets{})
		assert.Equal(t, "b", got[0].Name)
		assert.Equal(t, "a", got[1].Name)
	})

	t.Run("no lessons", func(t *testing.T) {
		assert.Empty(t, StudentRanking(nil, []string{"hana"}, completed, failed))
	})
}

func TestVisibleRanking(t *testing.T) {
	got := VisibleRanking([]RankEntry{{Name: "admin"}, {Name: "x"}, {Name: "hana"}, {Name: "ゆ"}, {Name: "ゆい"}})
	assert.Equal(t, []RankEntry{{Name: "hana"}, {Name: "ゆい"}}, got)
}

func TestWordFrequency(t *testing.T) {
	var bookmarks []model.Bookmark
	add := func(q, a string, n int) {
		for i := 0; i < n; i++ {
			bookmarks = append(bookmarks, model.Bookmark{Q: q, A: a})
		}
	}
	add("ねこ", "cat", 2)
	add("いぬ", "dog", 3)
	add("とり", "bird", 1)
	add("さる", "monkey", 2)
	add("うま", "horse", 1)
	add("うし", "cow", 1)
	add("ねこ", "kitty", 1)
	add("", "ignored", 5)

	got := WordFrequency(bookmarks)

	require.Len(t, got, TopWordsLimit)
	assert.Equal(t, WordCount{Word: "ねこ", Count: 3, Meaning: "kitty"}, got[0])
	assert.Equal(t, WordCount{Word: "いぬ", Count: 3, Meaning: "dog"}, got[1])
	assert.Equal(t, "さる", got[2].Word)
	assert.Equal(t, []string{"とり", "うま"}, []string{got[3].Word, got[4].Word})

	assert.Equal(t, []WordCount{}, WordFrequency(nil))
}

func TestFlattenBookmarks(t *testing.T) {
	byUser := map[string][]model.Bookmark{
		"ken":  {{Q: "k1"}},
		"hana": {{Q: "h1"}, {Q: "h2"}},
	}
	flat := FlattenBookmarks(byUser)
	require.Len(t, flat, 3)
	assert.Equal(t, []string{"h1", "h2", "k1"}, []string{flat[0].Q, flat[1].Q, flat[2].Q})
}

func TestStrugglingStudents(t *testing.T) {
	var failed LessonSets
	failed = failed.With("hana", "L1").With("hana", "L2").
		With("ken", "L1").
		With("yui", "L1").With("yui", "L2").With("yui", "L3").
		With("hana", "L1")

	assert.Equal(t, []Struggler{{Name: "yui", Count: 3}, {Name: "hana", Count: 2}}, StrugglingStudents(failed))
	assert.Equal(t, []Struggler{}, StrugglingStudents(LessonSets{}))
}

func TestStudentProgress(t *testing.T) {
	ls := []model.Lesson{{ID: "L1", Title: "Kana"}, {ID: "L2", Title: "Numbers"}, {ID: "L3", Title: "Colours"}}
	results := []model.Result{
		{Username: "hana", LessonID: "L1", Score: 40},
		{Username: "hana", LessonID: "L1", Score: 75.5},
		{Username: "hana", LessonID: "L2", Score: 20},
		{Username: "ken", LessonID: "L3", Score: 100},
	}

	got := StudentProgress(ls, results, "hana")
	require.Len(t, got, 3)

	assert.Equal(t, ProgressPassed, got[0].State)
	require.NotNil(t, got[0].BestScore)
	assert.Equal(t, 75.0, *got[0].BestScore)
	assert.Equal(t, ProgressNeedsReview, got[1].State)
	assert.Equal(t, ProgressNotAttempted, got[2].State)
	assert.Nil(t, got[2].BestScore)
}

func TestCompletionPercent(t *testing.T) {
	tests := []struct {
		completed, lessons, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{5, 3, 100},
		{1, 0, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CompletionPercent(tc.completed, tc.lessons), "%d/%d", tc.completed, tc.lessons)
	}
}

func TestBuild_DoesNotMutateInputs(t *testing.T) {
	c := Collections{
		Lessons: []model.Lesson{{ID: "L1", Title: "Kana", Content: []model.ContentItem{{Japanese: "あ", English: "a"}}}},
		Users:   []model.User{{Username: "hana", Role: model.Student}},
		Results: []model.Result{
			{Username: "hana", LessonID: "L1", Score: 90, Status: model.StatusCompleted},
			{Username: "ken", LessonID: "L1", Score: 10, Status: model.StatusFailed},
		},
		Activities: []model.Activity{{ID: "a2", Username: "ken"}, {ID: "a1", Username: "hana"}},
		Bookmarks:  []model.Bookmark{{ID: "b1", Username: "hana", Q: "あ", A: "a"}},
	}
	resultsBefore := append([]model.Result(nil), c.Results...)

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := Build(c, now)

	assert.Equal(t, resultsBefore, c.Results)
	assert.Equal(t, now, snap.GeneratedAt)
	assert.Equal(t, []RankEntry{{Name: "hana", ValidCompletedCount: 1}, {Name: "ken", ValidCompletedCount: 0}}, snap.Ranking)

	snap.Results[0].Score = 0
	assert.Equal(t, 90.0, c.Results[0].Score)

	student := snap.ForStudent("hana")
	assert.Equal(t, []string{"L1"}, student.Completed)
	assert.Equal(t, 100, student.Percent)
	assert.True(t, student.AllCompleted)
	assert.Len(t, student.Bookmarks, 1)
	assert.Len(t, student.RecentActivity, 1)

	teacher := snap.ForTeacher()
	assert.Len(t, teacher.Ranking, 2)
	assert.Len(t, snap.StudentDetail("ken"), 1)
}
