package quiz

import "nihongo_backend/internal/aggregate"

// Deck is a flashcard review. Next wraps around to the first card.
type Deck struct {
	LessonID string

	cards   []aggregate.Question
	index   int
	flipped bool
}

func NewDeck(lessonID string, cards []aggregate.Question) (Deck, error) {
	if len(cards) == 0 {
		return Deck{}, ErrEmptyLesson
	}
	return Deck{LessonID: lessonID, cards: cards}, nil
}

func (d Deck) Current() aggregate.Question { return d.cards[d.index] }
func (d Deck) Index() int                  { return d.index }
func (d Deck) Len() int                    { return len(d.cards) }
func (d Deck) Flipped() bool               { return d.flipped }

// Face is the visible side: the question, or the answer once flipped.
func (d Deck) Face() string {
	if d.flipped {
		return d.cards[d.index].A
	}
	return d.cards[d.index].Q
}

func (d Deck) Flip() Deck {
	d.flipped = !d.flipped
	return d
}

// Next shows the front of the following card.
func (d Deck) Next() Deck {
	d.index = (d.index + 1) % len(d.cards)
	d.flipped = false
	return d
}
