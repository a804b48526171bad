package domain

import (
	"fmt"
	"strings"
	"time"
)

// Direction selects which side of a vocabulary pair is shown as the prompt
type Direction string

const (
	// TermToMeaning shows the foreign term and asks for its meaning
	TermToMeaning Direction = "ForeignLanguageToMeaning"
	// MeaningToTerm shows the meaning and asks for the foreign term
	MeaningToTerm Direction = "MeaningToForeignLanguage"
)

// DefaultDirection is used when a quiz is started without choosing one
const DefaultDirection = MeaningToTerm

// ParseDirection accepts the full direction names and the short aliases
// "meaning" (answer with the meaning) and "term" (answer with the term).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultDirection, nil
	case strings.ToLower(string(TermToMeaning)), "meaning", "term-meaning":
		return TermToMeaning, nil
	case strings.ToLower(string(MeaningToTerm)), "term", "meaning-term":
		return MeaningToTerm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// PassPercent is the minimum share of correct answers, in percent, for a passing result
const PassPercent = 70

// Question is the prompt derived from one quiz item
type Question struct {
	Number    int // 1-based
	Total     int
	Direction Direction
	Prompt    string
}

// QuizSession is one user's quiz run
type QuizSession struct {
	UserID          int64
	Items           []QuizItem
	Cursor          int
	CorrectCount    int
	Direction       Direction
	StartedAt       time.Time
	LastActivity    time.Time
	ChatID          int64
	PromptMessageID int
	Active          bool
	TestDate        time.Time
}

// Done reports whether every item has been answered
func (s *QuizSession) Done() bool {
	return s.Cursor >= len(s.Items)
}

// Expected returns the answer expected for the current item
func (s *QuizSession) Expected() string {
	item := s.Items[s.Cursor]
	if s.Direction == TermToMeaning {
		return item.Meaning
	}
	return item.Term
}

// Question builds the prompt for the current item
func (s *QuizSession) Question() Question {
	item := s.Items[s.Cursor]
	prompt := item.Meaning
	if s.Direction == TermToMeaning {
		prompt = item.Term
	}
	return Question{
		Number:    s.Cursor + 1,
		Total:     len(s.Items),
		Direction: s.Direction,
		Prompt:    prompt,
	}
}

// QuizResult is the outcome of a finished or terminated quiz
type QuizResult struct {
	UserID       int64
	TestDate     time.Time
	Passed       bool
	CorrectCount int
	TotalCount   int
	CreatedAt    time.Time
	Forced       bool
}

// Score returns the share of correct answers in [0, 1]
func (r QuizResult) Score() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount)
}

// IsPassing reports whether correct out of total reaches PassPercent
func IsPassing(correct, total int) bool {
	if total <= 0 {
		return false
	}
	return correct*100 >= total*PassPercent
}
