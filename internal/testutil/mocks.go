package testutil

import (
	"context"
	"time"

	"lexibot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockVocabRepository is a mock for VocabRepository
type MockVocabRepository struct {
	mock.Mock
}

func (m *MockVocabRepository) SaveVocab(ctx context.Context, vocab domain.Vocab) (int, error) {
	args := m.Called(ctx, vocab)
	return args.Int(0), args.Error(1)
}

func (m *MockVocabRepository) GetDueVocab(ctx context.Context, userID int64, date time.Time) ([]domain.Vocab, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vocab), args.Error(1)
}

func (m *MockVocabRepository) CountDueVocab(ctx context.Context, userID int64, date time.Time) (int, error) {
	args := m.Called(ctx, userID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockVocabRepository) DeleteVocabRange(ctx context.Context, userID int64, startID, endID int) (int64, error) {
	args := m.Called(ctx, userID, startID, endID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVocabRepository) PurgeDeletedVocab(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// MockResultRepository is a mock for ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) SaveResult(ctx context.Context, result domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) HasPassingResult(ctx context.Context, userID int64, date time.Time) (bool, error) {
	args := m.Called(ctx, userID, date)
	return args.Bool(0), args.Error(1)
}

// MockMessenger is a mock for the outbound messaging port
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendToChannel(ctx context.Context, chatID int64, text string) (int, error) {
	args := m.Called(ctx, chatID, text)
	return args.Int(0), args.Error(1)
}

func (m *MockMessenger) SendDirect(ctx context.Context, userID int64, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
