package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UserLister returns the users reminders are evaluated for
type UserLister interface {
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
}

// ReminderConfig tunes the reminder scheduler
type ReminderConfig struct {
	// Schedule is a cron expression, e.g. "@every 1m"
	Schedule string
	// MinDueItems is the number of items due tomorrow below which the
	// add-vocabulary reminder fires
	MinDueItems int
	// MaxConcurrent bounds per-user evaluations running at once
	MaxConcurrent int
}

type reminderKey struct {
	userID int64
	kind   ReminderKind
}

// ReminderService sends each registered user at most one reminder of each
// kind per day
type ReminderService struct {
	users      UserLister
	registry   *SessionRegistry
	vocabRepo  repository.VocabRepository
	resultRepo repository.ResultRepository
	messenger  Messenger
	clock      Clock
	cfg        ReminderConfig
	logger     *zap.Logger

	mu   sync.Mutex
	sent map[reminderKey]string // date key of the last delivery
}

// NewReminderService creates a new reminder service
func NewReminderService(
	users UserLister,
	registry *SessionRegistry,
	vocabRepo repository.VocabRepository,
	resultRepo repository.ResultRepository,
	messenger Messenger,
	clock Clock,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	return &ReminderService{
		users:      users,
		registry:   registry,
		vocabRepo:  vocabRepo,
		resultRepo: resultRepo,
		messenger:  messenger,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
		sent:       make(map[reminderKey]string),
	}
}

// Start runs Tick on the configured schedule until ctx is cancelled
func (s *ReminderService) Start(ctx context.Context) error {
	loc := s.clock.Location
	if loc == nil {
		loc = time.Local
	}
	cronLogger := zapCronLogger{s.logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.Tick(ctx, s.clock.Now())
	})
	if err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.logger.Info("Reminder scheduler started", zap.String("schedule", s.cfg.Schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("Reminder scheduler stopped")
	return nil
}

// Tick evaluates every registered user once. It returns the number of
// reminders delivered.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) int {
	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for reminders", zap.Error(err))
		return 0
	}

	s.pruneSent(domain.DateKey(now))

	var (
		mu    sync.Mutex
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for _, user := range users {
		user := user
		g.Go(func() error {
			n := s.remindUser(gctx, user, now)
			mu.Lock()
			total += n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if total > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", total))
	}
	return total
}

// remindUser holds the user's session lock so that no quiz can start or be
// running while the user is evaluated.
func (s *ReminderService) remindUser(ctx context.Context, user domain.User, now time.Time) int {
	unlock := s.registry.Lock(user.UserID)
	defer unlock()

	if s.registry.IsActive(user.UserID) {
		s.logger.Debug("Skipping reminders during quiz", zap.Int64("user_id", user.UserID))
		return 0
	}

	clockTime := domain.TimeOfDayOf(now)
	today := domain.StartOfDay(now)
	sent := 0

	if clockTime >= user.AddVocabTime && !s.wasSent(user.UserID, ReminderAddVocab, now) {
		if s.needsVocab(ctx, user.UserID, today.AddDate(0, 0, 1)) && s.send(ctx, user.UserID, ReminderAddVocab, now) {
			sent++
		}
	}

	if clockTime >= user.QuizTime && !s.wasSent(user.UserID, ReminderQuiz, now) {
		if s.needsQuiz(ctx, user.UserID, today) && s.send(ctx, user.UserID, ReminderQuiz, now) {
			sent++
		}
	}

	return sent
}

// needsVocab reports whether fewer than MinDueItems are due on day.
// Lookup failures count as a need.
func (s *ReminderService) needsVocab(ctx context.Context, userID int64, day time.Time) bool {
	count, err := s.vocabRepo.CountDueVocab(ctx, userID, day)
	if err != nil {
		s.logger.Warn("Failed to count due vocabulary",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return true
	}
	return count < s.cfg.MinDueItems
}

// needsQuiz reports whether the user has not passed a quiz for day yet.
// Lookup failures count as a need.
func (s *ReminderService) needsQuiz(ctx context.Context, userID int64, day time.Time) bool {
	passed, err := s.resultRepo.HasPassingResult(ctx, userID, day)
	if err != nil {
		s.logger.Warn("Failed to look up quiz results",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return true
	}
	return !passed
}

// send delivers the reminder and records it for the day on success only
func (s *ReminderService) send(ctx context.Context, userID int64, kind ReminderKind, now time.Time) bool {
	if err := s.messenger.SendDirect(ctx, userID, ReminderText(kind)); err != nil {
		s.logger.Error("Failed to send reminder",
			zap.Int64("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return false
	}

	s.mu.Lock()
	s.sent[reminderKey{userID: userID, kind: kind}] = domain.DateKey(now)
	s.mu.Unlock()

	s.logger.Info("Reminder sent",
		zap.Int64("user_id", userID),
		zap.String("kind", string(kind)),
	)
	return true
}

func (s *ReminderService) wasSent(userID int64, kind ReminderKind, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[reminderKey{userID: userID, kind: kind}] == domain.DateKey(now)
}

// pruneSent forgets deliveries from previous days
func (s *ReminderService) pruneSent(today string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, day := range s.sent {
		if day != today {
			delete(s.sent, k)
		}
	}
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	log *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
