package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lexibot/internal/cache"
	"lexibot/internal/domain"
	"lexibot/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	usersCacheKey = "users"
	usersCacheTTL = 24 * time.Hour
)

// UserService manages registration and the cached user directory
type UserService struct {
	userRepo repository.UserRepository
	cache    *cache.Cache[[]domain.User]
	group    singleflight.Group
	// generation changes on every registration so a load that began
	// before it never overwrites the refreshed directory
	generation atomic.Uint64
	clock      Clock
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, clock Clock, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    cache.New[[]domain.User](1, usersCacheTTL),
		clock:    clock,
		logger:   logger,
	}
}

// Register creates or updates the user's reminder profile. Times are "HH:MM".
func (s *UserService) Register(ctx context.Context, userID int64, username, addVocabTime, quizTime string) (*domain.User, error) {
	addTime, err := domain.ParseTimeOfDay(addVocabTime)
	if err != nil {
		return nil, fmt.Errorf("add vocabulary time: %w", err)
	}
	qTime, err := domain.ParseTimeOfDay(quizTime)
	if err != nil {
		return nil, fmt.Errorf("quiz time: %w", err)
	}

	user := domain.User{
		UserID:       userID,
		Username:     username,
		AddVocabTime: addTime,
		QuizTime:     qTime,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.userRepo.UpsertUser(ctx, user); err != nil {
		return nil, err
	}

	s.invalidate()
	if _, err := s.ListActiveUsers(ctx); err != nil {
		s.logger.Warn("Failed to reload user directory", zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", userID),
		zap.String("add_vocab_time", addTime.String()),
		zap.String("quiz_time", qTime.String()),
	)
	return &user, nil
}

// ListActiveUsers returns the user directory, loading it at most once
// concurrently
func (s *UserService) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	if users, ok := s.cache.Get(usersCacheKey); ok {
		return users, nil
	}

	gen := s.generation.Load()
	v, err, _ := s.group.Do(fmt.Sprintf("%s:%d", usersCacheKey, gen), func() (interface{}, error) {
		users, err := s.userRepo.ListActiveUsers(ctx)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.cache.Set(usersCacheKey, users)
		}
		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return v.([]domain.User), nil
}

// GetUser returns the registered user or ErrNotRegistered. Users missing
// from the cached directory are looked up in the store, and a hit refreshes
// the directory.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	users, err := s.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			u := users[i]
			return &u, nil
		}
	}

	u, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotRegistered
	}
	s.invalidate()
	return u, nil
}

// IsRegistered reports whether the user has registered
func (s *UserService) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	_, err := s.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotRegistered) {
		return false, nil
	}
	return err == nil, err
}

func (s *UserService) invalidate() {
	s.generation.Add(1)
	s.cache.Delete(usersCacheKey)
}
