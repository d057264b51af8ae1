package aggregate

import (
	"nihongo_backend/internal/model"
	"sort"
	"time"
)

// Collections are the raw records fetched for one load.
type Collections struct {
	Lessons    []model.Lesson
	Users      []model.User
	Results    []model.Result
	Activities []model.Activity
	// Bookmarks may hold one user's list or everyone's.
	Bookmarks []model.Bookmark
}

// Snapshot is everything a view needs for one load. It is built once and
// never modified; a new load produces a new Snapshot.
type Snapshot struct {
	GeneratedAt  time.Time                 `json:"generatedAt"`
	Lessons      []model.Lesson            `json:"lessons"`
	Users        []model.User              `json:"users"`
	Results      []model.Result            `json:"results"`
	Activities   []model.Activity          `json:"activities"`
	Bookmarks    []model.Bookmark          `json:"bookmarks"`
	QuestionBank map[string][]Question     `json:"quizData"`
	UserRoles    map[string]model.UserRole `json:"userRoles"`
	Completed    LessonSets                `json:"completed"`
	Failed       LessonSets                `json:"failed"`
	LessonStats  []LessonTally             `json:"lessonStats"`
	Ranking      []RankEntry               `json:"ranking"`
	TopWords     []WordCount               `json:"topWords"`
	Struggling   []Struggler               `json:"struggling"`
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return append([]T(nil), in...)
}

// Build derives every aggregate from c.
func Build(c Collections, now time.Time) Snapshot {
	s := Snapshot{
		GeneratedAt: now,
		Lessons:     cloneSlice(c.Lessons),
		Users:       cloneSlice(c.Users),
		Results:     cloneSlice(c.Results),
		Activities:  cloneSlice(c.Activities),
		Bookmarks:   cloneSlice(c.Bookmarks),
	}

	s.QuestionBank = QuestionBank(s.Lessons)
	s.UserRoles = make(map[string]model.UserRole, len(s.Users))
	for _, u := range s.Users {
		s.UserRoles[u.Username] = u.Role
	}

	s.Completed, s.Failed = CompletionSets(s.Results)
	s.LessonStats = LessonTallies(s.Lessons, s.Results)
	s.Ranking = StudentRanking(s.Lessons, ActivityUsers(s.Activities), s.Completed, s.Failed)
	s.TopWords = WordFrequency(s.Bookmarks)
	s.Struggling = StrugglingStudents(s.Failed)
	return s
}

// StudentView is the home screen of one student.
type StudentView struct {
	Username       string           `json:"username"`
	Completed      []string         `json:"completed"`
	Failed         []string         `json:"failed"`
	Percent        int              `json:"percent"`
	AllCompleted   bool             `json:"allCompleted"`
	Bookmarks      []model.Bookmark `json:"bookmarks"`
	RecentActivity []model.Activity `json:"recentActivity"`
}

// ForStudent narrows the snapshot to one student.
func (s Snapshot) ForStudent(username string) StudentView {
	completed := ValidCompleted(s.Lessons, s.Completed.IDs(username))
	v := StudentView{
		Username:       username,
		Completed:      completed,
		Failed:         s.Failed.IDs(username),
		Percent:        CompletionPercent(len(completed), len(s.Lessons)),
		AllCompleted:   len(completed) == len(s.Lessons),
		Bookmarks:      []model.Bookmark{},
		RecentActivity: []model.Activity{},
	}
	for _, b := range s.Bookmarks {
		if b.Username == username {
			v.Bookmarks = append(v.Bookmarks, b)
		}
	}
	sort.SliceStable(v.Bookmarks, func(i, j int) bool {
		return v.Bookmarks[i].ID > v.Bookmarks[j].ID
	})
	for _, a := range s.Activities {
		if a.Username != username {
			continue
		}
		v.RecentActivity = append(v.RecentActivity, a)
		if len(v.RecentActivity) == RecentActivityLimit {
			break
		}
	}
	return v
}

// TeacherView is the analytics screen.
type TeacherView struct {
	LessonStats []LessonTally `json:"lessonStats"`
	Ranking     []RankEntry   `json:"ranking"`
	TopWords    []WordCount   `json:"topWords"`
	Struggling  []Struggler   `json:"struggling"`
}

func (s Snapshot) ForTeacher() TeacherView {
	return TeacherView{
		LessonStats: s.LessonStats,
		Ranking:     VisibleRanking(s.Ranking),
		TopWords:    s.TopWords,
		Struggling:  s.Struggling,
	}
}

// StudentDetail is the teacher drill-down for one student.
func (s Snapshot) StudentDetail(username string) []LessonProgress {
	return StudentProgress(s.Lessons, s.Results, username)
}
