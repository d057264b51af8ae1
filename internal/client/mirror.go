package client

import (
	"encoding/json"
	"fmt"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/quiz"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Keys of the local mirror.
const (
	KeyBookmarks  = "my_app_bookmarks"
	KeyActivities = "my_app_activities"
	KeyCompleted  = "my_app_completed"
	KeyFailed     = "my_app_failed"
	KeyUserRoles  = "my_app_user_roles"
	KeyLessons    = "my_app_lessons"
	KeyQuizData   = "my_app_quiz_data"
)

// Mirror keeps a best-effort local copy of client state. Nothing reads it
// back as the source of truth.
type Mirror interface {
	Store(key string, value interface{}) error
}

// FileMirror writes one JSON file per key into Dir.
type FileMirror struct {
	Dir string
}

func (m FileMirror) Path(key string) string {
	return filepath.Join(m.Dir, key+".json")
}

func (m FileMirror) Store(key string, value interface{}) error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(m.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), m.Path(key))
}

// MirrorModel stores the view model's snapshot and local state under the
// fixed keys. Every key is attempted; the errors are combined.
func MirrorModel(m Mirror, qm quiz.Model) error {
	snap := qm.Snapshot

	bookmarks := make(map[string][]model.Bookmark)
	for _, b := range snap.Bookmarks {
		bookmarks[b.Username] = append(bookmarks[b.Username], b)
	}

	entries := []struct {
		key   string
		value interface{}
	}{
		{KeyBookmarks, bookmarks},
		{KeyActivities, qm.RecentByUser()},
		{KeyCompleted, qm.Completed},
		{KeyFailed, qm.Failed},
		{KeyUserRoles, snap.UserRoles},
		{KeyLessons, snap.Lessons},
		{KeyQuizData, snap.QuestionBank},
	}

	var err error
	for _, e := range entries {
		err = multierr.Append(err, m.Store(e.key, e.value))
	}
	return err
}
