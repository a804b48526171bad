package handler

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"lexibot/internal/domain"
	"lexibot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStartTest handles /starttest [YYYY-MM-DD] [direction]
func (h *Handler) handleStartTest(c tele.Context) error {
	date, direction, err := parseStartTestArgs(c.Args(), h.clock.Location, h.clock.Today())
	if err != nil {
		return c.Send(errorText(err))
	}
	return h.startTest(c, date, direction)
}

func (h *Handler) handleStartTestButton(c tele.Context) error {
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.startTest(c, h.clock.Today(), domain.DefaultDirection)
}

// startTest begins the quiz; the quiz service posts the first question itself
func (h *Handler) startTest(c tele.Context, date time.Time, direction domain.Direction) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	_, err := h.quizService.Start(ctx, service.StartRequest{
		UserID:    userID,
		ChatID:    c.Chat().ID,
		TestDate:  date,
		Direction: direction,
	})
	if err != nil {
		if !isUserError(err) {
			h.logger.Error("Failed to start quiz", zap.Int64("user_id", userID), zap.Error(err))
		}
		return c.Send(errorText(err))
	}

	return nil
}

// parseStartTestArgs accepts an optional date and an optional direction in
// either order. Arguments starting with a digit are dates.
func parseStartTestArgs(args []string, loc *time.Location, today time.Time) (time.Time, domain.Direction, error) {
	date := today
	direction := domain.DefaultDirection

	if len(args) > 2 {
		return time.Time{}, "", domain.ErrInvalidDirection
	}

	for _, arg := range args {
		if arg != "" && unicode.IsDigit(rune(arg[0])) {
			d, err := domain.ParseDate(arg, loc, today)
			if err != nil {
				return time.Time{}, "", err
			}
			date = d
			continue
		}
		dir, err := domain.ParseDirection(arg)
		if err != nil {
			return time.Time{}, "", err
		}
		direction = dir
	}

	return date, direction, nil
}

// handleEndTest handles /endtest
func (h *Handler) handleEndTest(c tele.Context) error {
	return h.endTest(c)
}

func (h *Handler) handleEndTestButton(c tele.Context) error {
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.endTest(c)
}

// endTest force-ends the quiz; the result is delivered by the quiz service
func (h *Handler) endTest(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.quizService.End(ctx, c.Sender().ID, true); err != nil {
		return c.Send(errorText(err))
	}
	return nil
}

// handleText routes plain text from users with a running quiz to the quiz
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if !h.quizService.IsActive(userID) {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.quizService.SubmitAnswer(ctx, userID, text); err != nil {
		h.logger.Error("Failed to submit answer", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorText(err))
	}
	return nil
}

// isUserError reports errors caused by the request rather than the system
func isUserError(err error) bool {
	for _, target := range []error{
		domain.ErrAlreadyActive,
		domain.ErrEmptyItemSet,
		domain.ErrNoActiveSession,
		domain.ErrInvalidDirection,
		domain.ErrInvalidDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
