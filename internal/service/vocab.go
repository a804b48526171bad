package service

import (
	"context"
	"strings"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository"

	"go.uber.org/zap"
)

// VocabService handles vocabulary business logic
type VocabService struct {
	vocabRepo repository.VocabRepository
	clock     Clock
	logger    *zap.Logger
}

// NewVocabService creates a new vocabulary service
func NewVocabService(vocabRepo repository.VocabRepository, clock Clock, logger *zap.Logger) *VocabService {
	return &VocabService{vocabRepo: vocabRepo, clock: clock, logger: logger}
}

// AddVocab stores a new entry. Without a due date it is due tomorrow.
func (s *VocabService) AddVocab(ctx context.Context, userID int64, in domain.VocabInput) (*domain.Vocab, error) {
	term := strings.TrimSpace(in.Term)
	meaning := strings.TrimSpace(in.Meaning)
	if term == "" || meaning == "" {
		return nil, domain.ErrEmptyVocab
	}

	due := s.clock.Tomorrow()
	if in.DueDate != nil {
		due = domain.StartOfDay(*in.DueDate)
	}

	v := domain.Vocab{
		UserID:    userID,
		Term:      term,
		Meaning:   meaning,
		WordType:  in.WordType,
		Pronounce: strings.TrimSpace(in.Pronounce),
		Note:      strings.TrimSpace(in.Note),
		DueDate:   due,
		CreatedAt: s.clock.Now(),
	}

	id, err := s.vocabRepo.SaveVocab(ctx, v)
	if err != nil {
		return nil, err
	}
	v.ID = id

	s.logger.Info("Vocabulary added",
		zap.Int64("user_id", userID),
		zap.Int("id", id),
		zap.String("due_date", domain.DateKey(due)),
	)
	return &v, nil
}

// ListDue returns the entries due on date
func (s *VocabService) ListDue(ctx context.Context, userID int64, date time.Time) ([]domain.Vocab, error) {
	return s.vocabRepo.GetDueVocab(ctx, userID, date)
}

// DeleteRange soft-deletes entries with ids from startID to endID inclusive.
// An endID of zero deletes only startID.
func (s *VocabService) DeleteRange(ctx context.Context, userID int64, startID, endID int) (int64, error) {
	if endID == 0 {
		endID = startID
	}
	if startID < 1 || endID < startID {
		return 0, domain.ErrInvalidRange
	}

	n, err := s.vocabRepo.DeleteVocabRange(ctx, userID, startID, endID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Vocabulary deleted",
		zap.Int64("user_id", userID),
		zap.Int("start_id", startID),
		zap.Int("end_id", endID),
		zap.Int64("rows", n),
	)
	return n, nil
}
