package handler

import (
	"fmt"
	"strings"

	"lexibot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleRegister handles /register HH:MM HH:MM
func (h *Handler) handleRegister(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /register ADD_VOCAB_TIME QUIZ_TIME, e.g. /register 08:00 21:00")
	}

	ctx, cancel := requestContext()
	defer cancel()

	sender := c.Sender()
	user, err := h.userService.Register(ctx, sender.ID, displayName(sender), args[0], args[1])
	if err != nil {
		h.logger.Warn("Registration failed", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(errorText(err))
	}

	return c.Send(fmt.Sprintf(
		"✅ Registered!\n\nAdd-vocabulary reminder: %s\nQuiz reminder: %s",
		user.AddVocabTime, user.QuizTime,
	), mainMenuMarkup())
}

// handleUsers lists registered users
func (h *Handler) handleUsers(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	users, err := h.userService.ListActiveUsers(ctx)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		return c.Send(errorText(err))
	}

	return c.Send(formatUsers(users))
}

func formatUsers(users []domain.User) string {
	if len(users) == 0 {
		return "No registered users yet."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Registered users (%d):\n\n", len(users)))
	for i, u := range users {
		name := u.Username
		if name == "" {
			name = fmt.Sprintf("id %d", u.UserID)
		}
		sb.WriteString(fmt.Sprintf("%d. %s · add %s · quiz %s\n", i+1, name, u.AddVocabTime, u.QuizTime))
	}
	return sb.String()
}

// displayName prefers the Telegram username
func displayName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
