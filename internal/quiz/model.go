package quiz

import (
	"fmt"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/model"
	"strings"
	"time"
)

type View string

const (
	ViewLogin     View = "login"
	ViewHome      View = "home"
	ViewFlashcard View = "flashcard"
	ViewQuiz      View = "quiz"
	// ViewDashboard is home reached by passing a quiz.
	ViewDashboard View = "dashboard"
)

// RecentLimit caps the per-user list of recent quiz attempts.
const RecentLimit = 5

type Recent struct {
	Time    time.Time          `json:"time"`
	Content string             `json:"content"`
	Score   string             `json:"score"`
	Status  model.ResultStatus `json:"status"`
}

// Msg is an input to Update: a user intent or the answer to a Command.
type Msg interface{}

type (
	LoginRequested struct {
		Username string
		Role     model.UserRole
	}
	LoggedIn struct {
		User model.User
	}
	Logout          struct{}
	SnapshotLoaded  struct{ Snapshot aggregate.Snapshot }
	StartQuiz       struct{ LessonID string }
	StartFlashcards struct{ LessonID string }
	Answer          struct{ Option string }
	FlipCard        struct{}
	NextCard        struct{}
	BookmarkCard    struct{}
	GoHome          struct{}
	AddLesson       struct{ Title string }
	RemoveLesson    struct{ LessonID string }
	RemoveUser      struct{ Username string }
	ResetAll        struct{}
	// Notify shows a message, typically the result of a finished Command.
	Notify struct{ Text string }
	// CommandFailed reports a Command the driver could not carry out.
	CommandFailed struct{ Err error }
)

// Command is a side effect for the driver to perform against the API.
type Command interface{}

type (
	LoginCommand struct {
		Username string
		Role     model.UserRole
	}
	// LogoutCommand drops the identity the API client sends.
	LogoutCommand       struct{}
	LoadSnapshotCommand struct{}
	SubmitResultCommand struct{ Result model.Result }
	ToggleBookmarkCommand struct {
		Bookmark model.Bookmark
	}
	CreateLessonCommand struct{ Lesson model.Lesson }
	DeleteLessonCommand struct{ LessonID string }
	DeleteUserCommand   struct{ Username string }
	ResetSystemCommand  struct{}
)

// Model is the whole client state. Update never changes its receiver.
type Model struct {
	Username string
	Role     model.UserRole
	View     View
	Notice   string

	Snapshot  aggregate.Snapshot
	Completed aggregate.LessonSets
	Failed    aggregate.LessonSets

	Session Session
	Deck    Deck

	recent map[string][]Recent
	now    func() time.Time
}

func NewModel() Model {
	return Model{View: ViewLogin, now: time.Now}
}

// Recent returns username's latest attempts, newest first.
func (m Model) Recent(username string) []Recent {
	return append([]Recent(nil), m.recent[username]...)
}

// RecentByUser returns a copy of every user's recent attempts.
func (m Model) RecentByUser() map[string][]Recent {
	out := make(map[string][]Recent, len(m.recent))
	for k, v := range m.recent {
		out[k] = append([]Recent(nil), v...)
	}
	return out
}

func (m Model) withRecent(username string, entry Recent) Model {
	next := make(map[string][]Recent, len(m.recent)+1)
	for k, v := range m.recent {
		next[k] = v
	}
	list := append([]Recent{entry}, m.recent[username]...)
	if len(list) > RecentLimit {
		list = list[:RecentLimit]
	}
	next[username] = list
	m.recent = next
	return m
}

func (m Model) lessonTitle(id string) string {
	for _, l := range m.Snapshot.Lessons {
		if l.ID == id {
			return l.Title
		}
	}
	return ""
}

func (m Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m Model) Update(msg Msg) (Model, []Command) {
	m.Notice = ""

	switch msg := msg.(type) {
	case LoginRequested:
		username := strings.TrimSpace(msg.Username)
		if username == "" {
			m.Notice = "Please enter a username"
			return m, nil
		}
		if msg.Role == model.Admin && strings.ToLower(username) != model.AdminUsername {
			m.Notice = "Access denied"
			return m, nil
		}
		return m, []Command{LoginCommand{Username: username, Role: msg.Role}}

	case LoggedIn:
		m.Username = msg.User.Username
		m.Role = msg.User.Role
		m.View = ViewHome
		return m, []Command{LoadSnapshotCommand{}}

	case Logout:
		m.Username = ""
		m.Role = ""
		m.View = ViewLogin
		return m, []Command{LogoutCommand{}}

	case SnapshotLoaded:
		m.Snapshot = msg.Snapshot
		m.Completed = msg.Snapshot.Completed
		m.Failed = msg.Snapshot.Failed
		return m, nil

	case StartQuiz:
		s, err := NewSession(msg.LessonID, m.lessonTitle(msg.LessonID), m.Snapshot.QuestionBank[msg.LessonID])
		if err != nil {
			m.Notice = "This lesson has no questions yet"
			return m, nil
		}
		m.Session = s
		m.View = ViewQuiz
		return m, nil

	case StartFlashcards:
		d, err := NewDeck(msg.LessonID, m.Snapshot.QuestionBank[msg.LessonID])
		if err != nil {
			m.Notice = "This lesson has no cards yet"
			return m, nil
		}
		m.Deck = d
		m.View = ViewFlashcard
		return m, nil

	case Answer:
		if m.View != ViewQuiz {
			return m, nil
		}
		return m.answer(msg.Option)

	case FlipCard:
		if m.View == ViewFlashcard {
			m.Deck = m.Deck.Flip()
		}
		return m, nil

	case NextCard:
		if m.View == ViewFlashcard {
			m.Deck = m.Deck.Next()
		}
		return m, nil

	case BookmarkCard:
		if m.View != ViewFlashcard {
			return m, nil
		}
		card := m.Deck.Current()
		return m, []Command{ToggleBookmarkCommand{Bookmark: model.Bookmark{
			Username: m.Username,
			LessonID: m.Deck.LessonID,
			Q:        card.Q,
			A:        card.A,
		}}}

	case GoHome:
		m.View = ViewHome
		return m, []Command{LoadSnapshotCommand{}}

	case AddLesson:
		title := strings.TrimSpace(msg.Title)
		if title == "" {
			return m, nil
		}
		return m, []Command{CreateLessonCommand{Lesson: model.Lesson{Title: title}}, LoadSnapshotCommand{}}

	case RemoveLesson:
		return m, []Command{DeleteLessonCommand{LessonID: msg.LessonID}, LoadSnapshotCommand{}}

	case RemoveUser:
		if msg.Username == model.AdminUsername {
			m.Notice = "You cannot delete the admin user!"
			return m, nil
		}
		return m, []Command{DeleteUserCommand{Username: msg.Username}, LoadSnapshotCommand{}}

	case ResetAll:
		return m, []Command{ResetSystemCommand{}, LoadSnapshotCommand{}}

	case Notify:
		m.Notice = msg.Text
		return m, nil

	case CommandFailed:
		m.Notice = msg.Err.Error()
		return m, nil
	}

	return m, nil
}

func (m Model) answer(option string) (Model, []Command) {
	s, out := m.Session.Answer(option)
	m.Session = s
	if out == nil {
		return m, nil
	}

	if out.Passed() {
		m.Completed = m.Completed.With(m.Username, s.LessonID)
		m.Failed = m.Failed.Without(m.Username, s.LessonID)
		m.Notice = fmt.Sprintf("Congratulations! Score: %d%%\nThis lesson has been marked as completed!", out.Percentage)
		m.View = ViewDashboard
	} else {
		m.Failed = m.Failed.With(m.Username, s.LessonID)
		m.Notice = fmt.Sprintf("Score: %d%%.\nPlease try again.", out.Percentage)
		m.View = ViewHome
	}

	content := fmt.Sprintf("You have passed the %s quiz!", s.LessonTitle)
	if !out.Passed() {
		content = fmt.Sprintf("%s quiz failed", s.LessonTitle)
	}
	m = m.withRecent(m.Username, Recent{
		Time:    m.clock(),
		Content: content,
		Score:   fmt.Sprintf("%d%%", out.Percentage),
		Status:  out.Status,
	})

	return m, []Command{
		SubmitResultCommand{Result: model.Result{
			Username:    m.Username,
			LessonID:    s.LessonID,
			LessonTitle: s.LessonTitle,
			Score:       float64(out.Percentage),
			Status:      out.Status,
		}},
		LoadSnapshotCommand{},
	}
}
