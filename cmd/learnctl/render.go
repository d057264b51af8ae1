package main

import (
	"fmt"
	"io"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/quiz"
	"strconv"
)

// lessonArg accepts a 1-based lesson number from the list or a raw id.
func lessonArg(m quiz.Model, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(m.Snapshot.Lessons) {
		return m.Snapshot.Lessons[n-1].ID
	}
	return arg
}

// optionArg accepts a 1-based option number or the option text.
func optionArg(m quiz.Model, arg string) string {
	if m.View != quiz.ViewQuiz {
		return arg
	}
	options := m.Session.Current().Options
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return arg
}

func render(w io.Writer, m quiz.Model) {
	if m.Notice != "" {
		fmt.Fprintf(w, "\n*** %s\n", m.Notice)
	}

	switch m.View {
	case quiz.ViewLogin:
		fmt.Fprintln(w, "Not logged in.")
	case quiz.ViewQuiz:
		q := m.Session.Current()
		fmt.Fprintf(w, "\n[%s] question %d/%d (%d%%)\n  %s\n", m.Session.LessonTitle, m.Session.Index()+1, m.Session.Len(), m.Session.Progress(), q.Q)
		for i, o := range q.Options {
			fmt.Fprintf(w, "  %d) %s\n", i+1, o)
		}
	case quiz.ViewFlashcard:
		side := "front"
		if m.Deck.Flipped() {
			side = "back"
		}
		fmt.Fprintf(w, "\ncard %d/%d (%s): %s\n", m.Deck.Index()+1, m.Deck.Len(), side, m.Deck.Face())
	default:
		renderHome(w, m)
	}
}

func renderHome(w io.Writer, m quiz.Model) {
	snap := m.Snapshot
	fmt.Fprintln(w, "\nLessons:")
	for i, l := range snap.Lessons {
		mark := " "
		if m.Completed.Has(m.Username, l.ID) {
			mark = "✓"
		} else if m.Failed.Has(m.Username, l.ID) {
			mark = "✗"
		}
		fmt.Fprintf(w, " %s %d. %s (%d words)\n", mark, i+1, l.Title, len(l.Content))
	}

	if m.Role == model.Student {
		view := snap.ForStudent(m.Username)
		fmt.Fprintf(w, "\nProgress: %d%%\n", aggregate.CompletionPercent(len(aggregate.ValidCompleted(snap.Lessons, m.Completed.IDs(m.Username))), len(snap.Lessons)))
		if len(view.Bookmarks) > 0 {
			fmt.Fprintln(w, "Bookmarks:")
			for _, b := range view.Bookmarks {
				fmt.Fprintf(w, "  %s = %s\n", b.Q, b.A)
			}
		}
		if recent := m.Recent(m.Username); len(recent) > 0 {
			fmt.Fprintln(w, "Recent:")
			for _, r := range recent {
				fmt.Fprintf(w, "  %s  %s  %s\n", r.Time.Format("15:04"), r.Content, r.Score)
			}
		}
		return
	}

	teacher := snap.ForTeacher()
	fmt.Fprintln(w, "\nPass/fail by lesson:")
	for _, t := range teacher.LessonStats {
		fmt.Fprintf(w, "  %-20s pass %d  fail %d\n", t.Name, t.Pass, t.Fail)
	}
	fmt.Fprintln(w, "Ranking:")
	for i, r := range teacher.Ranking {
		fmt.Fprintf(w, "  %d. %s (%d)\n", i+1, r.Name, r.ValidCompletedCount)
	}
	if len(teacher.TopWords) > 0 {
		fmt.Fprintln(w, "Most bookmarked:")
		for _, wc := range teacher.TopWords {
			fmt.Fprintf(w, "  %s (%s) x%d\n", wc.Word, wc.Meaning, wc.Count)
		}
	}
	if len(teacher.Struggling) > 0 {
		fmt.Fprintln(w, "Needs attention:")
		for _, s := range teacher.Struggling {
			fmt.Fprintf(w, "  %s failed %d lessons\n", s.Name, s.Count)
		}
	}
	if m.Role == model.Admin {
		fmt.Fprintln(w, "Users:")
		for _, u := range snap.Users {
			fmt.Fprintf(w, "  %s (%s)\n", u.Username, u.Role)
		}
	}
}
