package model

import (
	"time"

	"gorm.io/gorm"
)

// Bookmark is a saved question/answer pair. (username, q) is unique only by
// convention of the toggle operation; there is no unique index.
// swagger:model Bookmark
type Bookmark struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"size:100;index" json:"username"`
	LessonID  string    `gorm:"size:36" json:"lessonId"`
	Q         string    `gorm:"type:text" json:"q"`
	A         string    `gorm:"type:text" json:"a"`
	Timestamp time.Time `json:"timestamp"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	return nil
}
