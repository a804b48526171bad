package service

import (
	"context"
	"time"

	"lexibot/internal/repository"

	"go.uber.org/zap"
)

// MaintenanceService performs periodic housekeeping
type MaintenanceService struct {
	vocabRepo     repository.VocabRepository
	quiz          *QuizService
	retentionDays int
	idleTimeout   time.Duration
	logger        *zap.Logger
}

// NewMaintenanceService creates a new maintenance service.
// A zero idleTimeout leaves quizzes running indefinitely.
func NewMaintenanceService(
	vocabRepo repository.VocabRepository,
	quiz *QuizService,
	retentionDays int,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		vocabRepo:     vocabRepo,
		quiz:          quiz,
		retentionDays: retentionDays,
		idleTimeout:   idleTimeout,
		logger:        logger,
	}
}

// PurgeDeleted removes soft-deleted vocabulary older than the retention period
func (s *MaintenanceService) PurgeDeleted(ctx context.Context) error {
	s.logger.Info("Starting purge of deleted vocabulary", zap.Int("retention_days", s.retentionDays))

	n, err := s.vocabRepo.PurgeDeletedVocab(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to purge deleted vocabulary", zap.Error(err))
		return err
	}

	s.logger.Info("Purge completed", zap.Int64("rows", n))
	return nil
}

// SweepIdleQuizzes force-ends quizzes idle for longer than the timeout
func (s *MaintenanceService) SweepIdleQuizzes(ctx context.Context) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	return s.quiz.EndIdle(ctx, s.idleTimeout)
}
