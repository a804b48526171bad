package repository

import (
	"context"
	"time"

	"lexibot/internal/domain"
)

// UserRepository defines user directory operations
type UserRepository interface {
	UpsertUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
}

// VocabRepository defines vocabulary operations
type VocabRepository interface {
	SaveVocab(ctx context.Context, vocab domain.Vocab) (int, error)
	GetDueVocab(ctx context.Context, userID int64, date time.Time) ([]domain.Vocab, error)
	CountDueVocab(ctx context.Context, userID int64, date time.Time) (int, error)
	DeleteVocabRange(ctx context.Context, userID int64, startID, endID int) (int64, error)
	PurgeDeletedVocab(ctx context.Context, days int) (int64, error)
}

// ResultRepository defines quiz result operations
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.QuizResult) error
	HasPassingResult(ctx context.Context, userID int64, date time.Time) (bool, error)
}
