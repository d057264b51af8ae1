package database

import (
	"fmt"
	"nihongo_backend/internal/model"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedFile struct {
	Lessons []seedLesson `yaml:"lessons"`
}

type seedLesson struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Content     []seedItem `yaml:"content"`
}

type seedItem struct {
	Japanese string   `yaml:"japanese"`
	Romaji   string   `yaml:"romaji"`
	English  string   `yaml:"english"`
	Options  []string `yaml:"options"`
}

// LoadSeedLessons parses a YAML seed file into lessons ready to insert.
func LoadSeedLessons(path string) ([]model.Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	lessons := make([]model.Lesson, 0, len(file.Lessons))
	for _, sl := range file.Lessons {
		lesson := model.Lesson{
			Title:       sl.Title,
			Description: sl.Description,
			Content:     make(datatypes.JSONSlice[model.ContentItem], 0, len(sl.Content)),
		}
		for _, it := range sl.Content {
			lesson.Content = append(lesson.Content, model.ContentItem{
				Japanese: it.Japanese,
				Romaji:   it.Romaji,
				English:  it.English,
				Options:  it.Options,
			})
		}
		lesson.Normalize()
		if err := lesson.Validate(); err != nil {
			return nil, fmt.Errorf("seed lesson %q: %w", sl.Title, err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// SeedLessons inserts the lessons only when the lessons table is empty and
// reports how many were written.
func SeedLessons(db *gorm.DB, lessons []model.Lesson) (int, error) {
	var count int64
	if err := db.Model(&model.Lesson{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 || len(lessons) == 0 {
		return 0, nil
	}
	if err := db.Create(&lessons).Error; err != nil {
		return 0, err
	}
	return len(lessons), nil
}
