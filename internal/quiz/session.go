// Package quiz holds the quiz and flashcard state machines and the view model
// that drives them. All values are immutable: every transition returns a new
// value.
package quiz

import (
	"errors"
	"math"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/model"
)

// PointsPerAnswer is awarded for each answer that matches exactly.
const PointsPerAnswer = 10

var ErrEmptyLesson = errors.New("lesson has no questions")

// Outcome is the graded end of a quiz.
type Outcome struct {
	Score      int
	Percentage int
	Status     model.ResultStatus
}

func (o Outcome) Passed() bool {
	return o.Status == model.StatusCompleted
}

// Percentage converts a raw score to a whole percentage of the maximum.
func Percentage(score, questions int) int {
	if questions <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(questions*PointsPerAnswer) * 100))
}

// Grade turns a finished score into an outcome at QuizPassPercent.
func Grade(score, questions int) Outcome {
	pct := Percentage(score, questions)
	status := model.StatusFailed
	if pct >= aggregate.QuizPassPercent {
		status = model.StatusCompleted
	}
	return Outcome{Score: score, Percentage: pct, Status: status}
}

// Session is a quiz in progress.
type Session struct {
	LessonID    string
	LessonTitle string

	questions []aggregate.Question
	index     int
	score     int
}

func NewSession(lessonID, lessonTitle string, questions []aggregate.Question) (Session, error) {
	if len(questions) == 0 {
		return Session{}, ErrEmptyLesson
	}
	return Session{
		LessonID:    lessonID,
		LessonTitle: lessonTitle,
		questions:   questions,
	}, nil
}

func (s Session) Current() aggregate.Question {
	return s.questions[s.index]
}

func (s Session) Index() int { return s.index }
func (s Session) Len() int   { return len(s.questions) }
func (s Session) Score() int { return s.score }

// Progress is how far through the quiz the current question is, in percent.
func (s Session) Progress() int {
	return int(float64(s.index+1) / float64(len(s.questions)) * 100)
}

// Answer scores option against the current question. On the last question it
// returns the graded outcome; otherwise the outcome is nil and the session
// moves on.
func (s Session) Answer(option string) (Session, *Outcome) {
	if option == s.questions[s.index].A {
		s.score += PointsPerAnswer
	}
	if s.index+1 < len(s.questions) {
		s.index++
		return s, nil
	}
	out := Grade(s.score, len(s.questions))
	return s, &out
}
