package domain

import (
	"strings"
	"time"
)

// WordType classifies a vocabulary entry
type WordType int

const (
	WordTypeUnknown WordType = iota
	WordTypeNoun
	WordTypeVerb
	WordTypeAdjective
	WordTypeAdverb
	WordTypeNounPhrase
	WordTypeSentence
	WordTypeGrammar
	WordTypeParagraph
)

var wordTypeNames = []string{
	"Unknown",
	"Noun",
	"Verb",
	"Adjective",
	"Adverb",
	"NounPhrase",
	"Sentence",
	"Grammar",
	"Paragraph",
}

// String returns the display name of the word type
func (t WordType) String() string {
	if t < 0 || int(t) >= len(wordTypeNames) {
		return wordTypeNames[WordTypeUnknown]
	}
	return wordTypeNames[t]
}

// ParseWordType resolves a word type by name, case-insensitively.
// Unrecognised names map to WordTypeUnknown.
func ParseWordType(s string) WordType {
	s = strings.TrimSpace(s)
	for i, name := range wordTypeNames {
		if strings.EqualFold(name, s) {
			return WordType(i)
		}
	}
	return WordTypeUnknown
}

// Vocab is a stored vocabulary entry
type Vocab struct {
	ID        int
	UserID    int64
	Term      string
	Meaning   string
	WordType  WordType
	Pronounce string
	Note      string
	DueDate   time.Time
	CreatedAt time.Time
	Deleted   bool
}

// VocabInput holds the fields a user supplies when adding an entry
type VocabInput struct {
	Term      string
	Meaning   string
	WordType  WordType
	Pronounce string
	Note      string
	DueDate   *time.Time
}

// QuizItem is an immutable snapshot of a vocabulary entry used during a quiz
type QuizItem struct {
	Term      string
	Meaning   string
	WordType  WordType
	Pronounce string
	Note      string
	DueDate   time.Time
}

// Item returns the quiz snapshot of the entry
func (v Vocab) Item() QuizItem {
	return QuizItem{
		Term:      v.Term,
		Meaning:   v.Meaning,
		WordType:  v.WordType,
		Pronounce: v.Pronounce,
		Note:      v.Note,
		DueDate:   v.DueDate,
	}
}
