// Package aggregate derives the dashboard views from fetched collections.
// Every function is pure: inputs are never modified.
package aggregate

import (
	"math"
	"nihongo_backend/internal/model"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// QuizPassPercent gates a quiz attempt as completed.
	QuizPassPercent = 80
	// ReportPassScore splits pass/fail in charts and teacher reports.
	ReportPassScore = 60

	RecentActivityLimit   = 5
	TopWordsLimit         = 5
	StrugglingMinFailures = 2
)

// CompletionSets partitions results by username into completed and failed
// lesson ids. Any status other than completed counts as failed.
func CompletionSets(results []model.Result) (completed, failed LessonSets) {
	for _, r := range results {
		if r.Username == "" || r.LessonID == "" {
			continue
		}
		if r.Status == model.StatusCompleted {
			completed = completed.With(r.Username, r.LessonID)
		} else {
			failed = failed.With(r.Username, r.LessonID)
		}
	}
	return completed, failed
}

type Question struct {
	Q       string   `json:"q"`
	A       string   `json:"a"`
	Options []string `json:"options"`
}

// QuestionsFor maps a lesson's content to quiz questions. An item without
// options offers its answer as the only choice.
func QuestionsFor(lesson model.Lesson) []Question {
	questions := make([]Question, 0, len(lesson.Content))
	for _, item := range lesson.Content {
		options := append([]string(nil), item.Options...)
		if len(options) == 0 {
			options = []string{item.English}
		}
		questions = append(questions, Question{Q: item.Japanese, A: item.English, Options: options})
	}
	return questions
}

func QuestionBank(lessons []model.Lesson) map[string][]Question {
	bank := make(map[string][]Question, len(lessons))
	for _, l := range lessons {
		bank[l.ID] = QuestionsFor(l)
	}
	return bank
}

type LessonTally struct {
	Name  string `json:"name"`
	Pass  int    `json:"pass"`
	Fail  int    `json:"fail"`
	Total int    `json:"total"`
}

func matchesLesson(r model.Result, l model.Lesson) bool {
	return (r.LessonTitle != "" && r.LessonTitle == l.Title) || r.LessonID == l.ID
}

// LessonTallies counts pass/fail results per lesson at ReportPassScore.
func LessonTallies(lessons []model.Lesson, results []model.Result) []LessonTally {
	tallies := make([]LessonTally, 0, len(lessons))
	for _, l := range lessons {
		t := LessonTally{Name: l.Title}
		for _, r := range results {
			if !matchesLesson(r, l) {
				continue
			}
			if r.Score >= ReportPassScore {
				t.Pass++
			} else {
				t.Fail++
			}
		}
		t.Total = t.Pass + t.Fail
		tallies = append(tallies, t)
	}
	return tallies
}

// ValidCompleted keeps only the ids that still name an existing lesson.
func ValidCompleted(lessons []model.Lesson, ids []string) []string {
	existing := make(map[string]struct{}, len(lessons))
	for _, l := range lessons {
		existing[strings.TrimSpace(l.ID)] = struct{}{}
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := existing[strings.TrimSpace(id)]; ok {
			valid = append(valid, id)
		}
	}
	return valid
}

// ActivityUsers lists the distinct usernames of activities in encounter order.
func ActivityUsers(activities []model.Activity) []string {
	seen := make(map[string]struct{}, len(activities))
	users := make([]string, 0, len(activities))
	for _, a := range activities {
		if a.Username == "" {
			continue
		}
		if _, ok := seen[a.Username]; ok {
			continue
		}
		seen[a.Username] = struct{}{}
		users = append(users, a.Username)
	}
	return users
}

type RankEntry struct {
	Name                string `json:"name"`
	ValidCompletedCount int    `json:"validCompletedCount"`
}

// StudentRanking ranks every known username by completed lessons that still
// exist. Ties keep encounter order.
func StudentRanking(lessons []model.Lesson, activityUsers []string, completed, failed LessonSets) []RankEntry {
	if len(lessons) == 0 {
		return []RankEntry{}
	}

	seen := make(map[string]struct{})
	var names []string
	for _, group := range [][]string{activityUsers, completed.Users(), failed.Users()} {
		for _, n := range group {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}

	ranking := make([]RankEntry, 0, len(names))
	for _, n := range names {
		ranking = append(ranking, RankEntry{
			Name:                n,
			ValidCompletedCount: len(ValidCompleted(lessons, completed.IDs(n))),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].ValidCompletedCount > ranking[j].ValidCompletedCount
	})
	return ranking
}

// VisibleRanking drops the admin account and single-character names, as the
// teacher view does.
func VisibleRanking(ranking []RankEntry) []RankEntry {
	visible := make([]RankEntry, 0, len(ranking))
	for _, e := range ranking {
		if e.Name == model.AdminUsername || utf8.RuneCountInString(e.Name) <= 1 {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

type WordCount struct {
	Word    string `json:"word"`
	Count   int    `json:"count"`
	Meaning string `json:"meaning"`
}

// FlattenBookmarks merges per-user bookmark lists. Users are visited in
// alphabetical order so the result does not depend on map iteration.
func FlattenBookmarks(byUser map[string][]model.Bookmark) []model.Bookmark {
	users := make([]string, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Strings(users)

	var flat []model.Bookmark
	for _, u := range users {
		flat = append(flat, byUser[u]...)
	}
	return flat
}

// WordFrequency counts bookmarks per question text, remembers the answer
// seen last for each, and returns the TopWordsLimit most frequent.
func WordFrequency(bookmarks []model.Bookmark) []WordCount {
	index := make(map[string]int)
	var words []WordCount
	for _, b := range bookmarks {
		if b.Q == "" {
			continue
		}
		i, ok := index[b.Q]
		if !ok {
			index[b.Q] = len(words)
			words = append(words, WordCount{Word: b.Q})
			i = len(words) - 1
		}
		words[i].Count++
		words[i].Meaning = b.A
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})
	if len(words) > TopWordsLimit {
		words = words[:TopWordsLimit]
	}
	if words == nil {
		words = []WordCount{}
	}
	return words
}

type Struggler struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StrugglingStudents lists users with at least StrugglingMinFailures distinct
// failed lessons, most failures first.
func StrugglingStudents(failed LessonSets) []Struggler {
	out := []Struggler{}
	for _, u := range failed.Users() {
		if n := failed.Len(u); n >= StrugglingMinFailures {
			out = append(out, Struggler{Name: u, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

const (
	ProgressPassed       = "passed"
	ProgressNeedsReview  = "needs_review"
	ProgressNotAttempted = "not_attempted"
)

type LessonProgress struct {
	LessonID  string   `json:"lessonId"`
	Title     string   `json:"title"`
	BestScore *float64 `json:"bestScore"`
	State     string   `json:"state"`
}

// StudentProgress reports a student's best score per lesson for the teacher
// drill-down.
func StudentProgress(lessons []model.Lesson, results []model.Result, username string) []LessonProgress {
	progress := make([]LessonProgress, 0, len(lessons))
	for _, l := range lessons {
		p := LessonProgress{LessonID: l.ID, Title: l.Title, State: ProgressNotAttempted}
		for _, r := range results {
			if r.Username != username || !matchesLesson(r, l) {
				continue
			}
			score := math.Trunc(r.Score)
			if p.BestScore == nil || score > *p.BestScore {
				p.BestScore = &score
			}
		}
		if p.BestScore != nil {
			p.State = ProgressNeedsReview
			if *p.BestScore >= ReportPassScore {
				p.State = ProgressPassed
			}
		}
		progress = append(progress, p)
	}
	return progress
}

// CompletionPercent is the share of lessons completed, capped at 100.
func CompletionPercent(completed, lessonCount int) int {
	if lessonCount < 1 {
		lessonCount = 1
	}
	pct := int(math.Round(float64(completed) / float64(lessonCount) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
