package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository"

	"go.uber.org/zap"
)

// StartRequest describes a quiz a user asked to take
type StartRequest struct {
	UserID    int64
	ChatID    int64
	TestDate  time.Time
	Direction domain.Direction
}

// AnswerOutcome is what one submitted answer produced.
// Exactly one of Next and Result is set.
type AnswerOutcome struct {
	Correct  bool
	Expected string
	Next     *domain.Question
	Result   *domain.QuizResult
}

// QuizService runs interactive quiz sessions
type QuizService struct {
	registry   *SessionRegistry
	vocabRepo  repository.VocabRepository
	resultRepo repository.ResultRepository
	messenger  Messenger
	clock      Clock
	logger     *zap.Logger

	shuffle func(n int, swap func(i, j int))
}

// NewQuizService creates a new quiz service
func NewQuizService(
	registry *SessionRegistry,
	vocabRepo repository.VocabRepository,
	resultRepo repository.ResultRepository,
	messenger Messenger,
	clock Clock,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		registry:   registry,
		vocabRepo:  vocabRepo,
		resultRepo: resultRepo,
		messenger:  messenger,
		clock:      clock,
		logger:     logger,
		shuffle:    rand.Shuffle,
	}
}

// IsActive reports whether the user has a quiz in progress
func (s *QuizService) IsActive(userID int64) bool {
	return s.registry.IsActive(userID)
}

// Start loads the user's items due on the requested date and begins a quiz
func (s *QuizService) Start(ctx context.Context, req StartRequest) (*domain.Question, error) {
	if s.registry.IsActive(req.UserID) {
		return nil, domain.ErrAlreadyActive
	}

	vocabs, err := s.vocabRepo.GetDueVocab(ctx, req.UserID, req.TestDate)
	if err != nil {
		return nil, fmt.Errorf("load due vocabulary: %w", err)
	}

	items := make([]domain.QuizItem, 0, len(vocabs))
	for _, v := range vocabs {
		items = append(items, v.Item())
	}

	return s.Begin(ctx, req, items)
}

// Begin starts a quiz over items, shuffled once, and posts the first question
func (s *QuizService) Begin(ctx context.Context, req StartRequest, items []domain.QuizItem) (*domain.Question, error) {
	if req.Direction != domain.TermToMeaning && req.Direction != domain.MeaningToTerm {
		return nil, domain.ErrInvalidDirection
	}

	unlock := s.registry.Lock(req.UserID)
	if s.registry.IsActive(req.UserID) {
		unlock()
		return nil, domain.ErrAlreadyActive
	}
	if len(items) == 0 {
		unlock()
		return nil, domain.ErrEmptyItemSet
	}

	shuffled := make([]domain.QuizItem, len(items))
	copy(shuffled, items)
	s.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	now := s.clock.Now()
	session := &domain.QuizSession{
		UserID:       req.UserID,
		Items:        shuffled,
		Direction:    req.Direction,
		StartedAt:    now,
		LastActivity: now,
		ChatID:       req.ChatID,
		TestDate:     req.TestDate,
	}
	if !s.registry.Put(session) {
		unlock()
		return nil, domain.ErrAlreadyActive
	}
	q := session.Question()
	unlock()

	s.logger.Info("Quiz started",
		zap.Int64("user_id", req.UserID),
		zap.Int("items", len(shuffled)),
		zap.String("direction", string(req.Direction)),
		zap.String("test_date", domain.DateKey(req.TestDate)),
	)

	s.postQuestion(ctx, session, q)

	return &q, nil
}

// SubmitAnswer scores text against the current question of the user's quiz.
// Without an active quiz it does nothing and returns a nil outcome.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID int64, text string) (*AnswerOutcome, error) {
	unlock := s.registry.Lock(userID)
	session, ok := s.registry.Get(userID)
	if !ok {
		unlock()
		return nil, nil
	}

	expected := session.Expected()
	outcome := &AnswerOutcome{
		Correct:  EvaluateAnswer(text, expected),
		Expected: expected,
	}
	if outcome.Correct {
		session.CorrectCount++
	}
	session.Cursor++
	session.LastActivity = s.clock.Now()

	if session.Done() {
		result := s.closeLocked(session, false)
		outcome.Result = &result
	} else {
		q := session.Question()
		outcome.Next = &q
	}
	unlock()

	if _, err := s.messenger.SendToChannel(ctx, session.ChatID, FormatFeedback(outcome.Correct, expected)); err != nil {
		s.logger.Warn("Failed to send answer feedback",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if outcome.Next != nil {
		s.postQuestion(ctx, session, *outcome.Next)
	} else {
		s.deliver(ctx, session.ChatID, *outcome.Result)
	}

	return outcome, nil
}

// End finalizes the user's quiz. forced marks an early termination.
func (s *QuizService) End(ctx context.Context, userID int64, forced bool) (*domain.QuizResult, error) {
	unlock := s.registry.Lock(userID)
	session, ok := s.registry.Get(userID)
	if !ok {
		unlock()
		return nil, domain.ErrNoActiveSession
	}
	result := s.closeLocked(session, forced)
	unlock()

	s.deliver(ctx, session.ChatID, result)

	return &result, nil
}

// EndIdle force-ends quizzes without activity for at least ttl and
// returns how many were ended.
func (s *QuizService) EndIdle(ctx context.Context, ttl time.Duration) int {
	now := s.clock.Now()
	ended := 0

	for _, userID := range s.registry.UserIDs() {
		unlock := s.registry.Lock(userID)
		session, ok := s.registry.Get(userID)
		if !ok || now.Sub(session.LastActivity) < ttl {
			unlock()
			continue
		}
		result := s.closeLocked(session, true)
		unlock()

		s.logger.Info("Idle quiz ended",
			zap.Int64("user_id", userID),
			zap.Duration("idle", now.Sub(session.LastActivity)),
		)
		s.deliver(ctx, session.ChatID, result)
		ended++
	}

	return ended
}

// closeLocked scores the session and removes it from the registry.
// The caller must hold the user's lock. Answers attempted so far form the
// total, so an early end is not penalised for unanswered questions.
func (s *QuizService) closeLocked(session *domain.QuizSession, forced bool) domain.QuizResult {
	result := domain.QuizResult{
		UserID:       session.UserID,
		TestDate:     session.TestDate,
		Passed:       domain.IsPassing(session.CorrectCount, session.Cursor),
		CorrectCount: session.CorrectCount,
		TotalCount:   session.Cursor,
		CreatedAt:    session.StartedAt,
		Forced:       forced,
	}
	s.registry.Remove(session.UserID)
	return result
}

// deliver notifies the user of the result, then records it. Neither failure
// brings the session back.
func (s *QuizService) deliver(ctx context.Context, chatID int64, result domain.QuizResult) {
	text := FormatResult(result)

	sent := false
	if chatID != 0 {
		if _, err := s.messenger.SendToChannel(ctx, chatID, text); err != nil {
			s.logger.Warn("Failed to send result to chat, falling back to direct message",
				zap.Int64("user_id", result.UserID),
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		} else {
			sent = true
		}
	}
	if !sent {
		if err := s.messenger.SendDirect(ctx, result.UserID, text); err != nil {
			s.logger.Error("Failed to deliver quiz result",
				zap.Int64("user_id", result.UserID),
				zap.Error(err),
			)
		}
	}

	if err := s.resultRepo.SaveResult(ctx, result); err != nil {
		s.logger.Error("Failed to save quiz result",
			zap.Int64("user_id", result.UserID),
			zap.Int("correct", result.CorrectCount),
			zap.Int("total", result.TotalCount),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Quiz finished",
		zap.Int64("user_id", result.UserID),
		zap.Int("correct", result.CorrectCount),
		zap.Int("total", result.TotalCount),
		zap.Bool("passed", result.Passed),
		zap.Bool("forced", result.Forced),
	)
}

// postQuestion sends q and remembers the prompt message while the same
// session is still running.
func (s *QuizService) postQuestion(ctx context.Context, session *domain.QuizSession, q domain.Question) {
	msgID, err := s.messenger.SendToChannel(ctx, session.ChatID, FormatQuestion(q))
	if err != nil {
		s.logger.Warn("Failed to send question",
			zap.Int64("user_id", session.UserID),
			zap.Int("question", q.Number),
			zap.Error(err),
		)
		return
	}

	unlock := s.registry.Lock(session.UserID)
	defer unlock()
	if current, ok := s.registry.Get(session.UserID); ok && current == session {
		session.PromptMessageID = msgID
	}
}
