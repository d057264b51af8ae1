package aggregate

import (
	"encoding/json"
	"sort"
)

// LessonSets maps usernames to distinct lesson ids. Both users and ids keep
// the order in which they were first seen. Values are immutable: With and
// Without return modified copies.
type LessonSets struct {
	users []string
	ids   map[string][]string
}

func (s LessonSets) Users() []string {
	return append([]string(nil), s.users...)
}

func (s LessonSets) IDs(user string) []string {
	return append([]string(nil), s.ids[user]...)
}

func (s LessonSets) Len(user string) int {
	return len(s.ids[user])
}

func (s LessonSets) Has(user, id string) bool {
	for _, v := range s.ids[user] {
		if v == id {
			return true
		}
	}
	return false
}

func (s LessonSets) clone() LessonSets {
	out := LessonSets{
		users: append([]string(nil), s.users...),
		ids:   make(map[string][]string, len(s.ids)),
	}
	for u, ids := range s.ids {
		out.ids[u] = append([]string(nil), ids...)
	}
	return out
}

// With returns a copy that also contains id for user.
func (s LessonSets) With(user, id string) LessonSets {
	if s.Has(user, id) {
		return s
	}
	out := s.clone()
	if _, ok := out.ids[user]; !ok {
		out.users = append(out.users, user)
	}
	out.ids[user] = append(out.ids[user], id)
	return out
}

// Without returns a copy with id removed from user. The user stays listed,
// possibly with no ids.
func (s LessonSets) Without(user, id string) LessonSets {
	if !s.Has(user, id) {
		return s
	}
	out := s.clone()
	kept := out.ids[user][:0]
	for _, v := range out.ids[user] {
		if v != id {
			kept = append(kept, v)
		}
	}
	out.ids[user] = kept
	return out
}

// Drop returns a copy without user.
func (s LessonSets) Drop(user string) LessonSets {
	if _, ok := s.ids[user]; !ok {
		return s
	}
	out := s.clone()
	delete(out.ids, user)
	users := out.users[:0]
	for _, u := range out.users {
		if u != user {
			users = append(users, u)
		}
	}
	out.users = users
	return out
}

func (s LessonSets) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, len(s.ids))
	for u, ids := range s.ids {
		m[u] = ids
	}
	return json.Marshal(m)
}

// UnmarshalJSON restores a set; user order becomes alphabetical because JSON
// objects carry no order.
func (s *LessonSets) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	s.users = make([]string, 0, len(m))
	s.ids = make(map[string][]string, len(m))
	for u, ids := range m {
		s.users = append(s.users, u)
		s.ids[u] = ids
	}
	sort.Strings(s.users)
	return nil
}
