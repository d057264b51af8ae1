package model

import (
	"time"

	"gorm.io/gorm"
)

type ResultStatus string

const (
	StatusCompleted ResultStatus = "completed"
	StatusFailed    ResultStatus = "failed"
)

func (s ResultStatus) Valid() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result is one graded quiz attempt.
// swagger:model Result
type Result struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username    string       `gorm:"size:100;index;not null" json:"username"`
	LessonID    string       `gorm:"size:36;index;not null" json:"lessonId"`
	LessonTitle string       `gorm:"size:200" json:"lessonTitle,omitempty"`
	Score       float64      `gorm:"not null" json:"score"`
	Status      ResultStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

// LessonRef is the part of a lesson resolved onto a student's result.
type LessonRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// StudentResult is a Result with its lesson resolved. Lesson is nil when the
// lesson no longer exists.
type StudentResult struct {
	Result
	Lesson *LessonRef `json:"lesson"`
}
