package testutil

import (
	"time"

	"lexibot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FixedNow returns a function always reporting t
func FixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewTestUser creates a registered test user
func NewTestUser(userID int64, addVocab, quiz string) domain.User {
	addTime, err := domain.ParseTimeOfDay(addVocab)
	if err != nil {
		panic(err)
	}
	quizTime, err := domain.ParseTimeOfDay(quiz)
	if err != nil {
		panic(err)
	}
	return domain.User{
		UserID:       userID,
		Username:     "tester",
		AddVocabTime: addTime,
		QuizTime:     quizTime,
		CreatedAt:    time.Now(),
	}
}

// NewTestVocab creates a test vocabulary entry due on dueDate
func NewTestVocab(id int, userID int64, term, meaning string, dueDate time.Time) domain.Vocab {
	return domain.Vocab{
		ID:        id,
		UserID:    userID,
		Term:      term,
		Meaning:   meaning,
		WordType:  domain.WordTypeNoun,
		DueDate:   dueDate,
		CreatedAt: time.Now(),
	}
}

// NewTestItems builds quiz items from term/meaning pairs
func NewTestItems(pairs ...[2]string) []domain.QuizItem {
	items := make([]domain.QuizItem, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, domain.QuizItem{Term: p[0], Meaning: p[1]})
	}
	return items
}
