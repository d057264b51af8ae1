package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActionRegistered = "registered"
	ActionLogin      = "login"
	ActionCompleted  = "completed"
	ActionAttempted  = "attempted"
	ActionBookmarked = "bookmarked"
)

// Activity is a best-effort audit entry. LessonTitle is free text, not a reference.
// swagger:model Activity
type Activity struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username    string    `gorm:"size:100;index" json:"username"`
	Action      string    `gorm:"size:50" json:"action"`
	LessonTitle string    `gorm:"type:text" json:"lessonTitle"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}
