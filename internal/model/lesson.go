package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentItem is one vocabulary card inside a lesson.
type ContentItem struct {
	Japanese string   `json:"japanese"`
	Romaji   string   `json:"romaji,omitempty"`
	English  string   `json:"english"`
	Options  []string `json:"options"`
}

// swagger:model Lesson
type Lesson struct {
	ID          string                           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string                           `gorm:"size:200;not null" json:"title"`
	Description string                           `gorm:"type:text" json:"description,omitempty"`
	Content     datatypes.JSONSlice[ContentItem] `json:"content"`
	CreatedAt   time.Time                        `json:"createdAt"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// Normalize replaces nil slices with empty ones so the stored JSON is never null.
func (l *Lesson) Normalize() {
	if l.Content == nil {
		l.Content = datatypes.JSONSlice[ContentItem]{}
	}
	for i := range l.Content {
		if l.Content[i].Options == nil {
			l.Content[i].Options = []string{}
		}
	}
}

// Validate checks the shape the store would otherwise reject.
func (l *Lesson) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	}
	return ValidateContent(l.Content)
}

// ValidateContent requires japanese and english text on every item.
func ValidateContent(items []ContentItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Japanese) == "" {
			return fmt.Errorf("%w: content[%d].japanese is required", ErrInvalidRecord, i)
		}
		if strings.TrimSpace(item.English) == "" {
			return fmt.Errorf("%w: content[%d].english is required", ErrInvalidRecord, i)
		}
	}
	return nil
}
