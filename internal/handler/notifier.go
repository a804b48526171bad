package handler

import (
	"context"

	tele "gopkg.in/telebot.v3"
)

// Notifier delivers bot messages through Telegram
type Notifier struct {
	bot *tele.Bot
}

// NewNotifier creates a notifier sending through bot
func NewNotifier(bot *tele.Bot) *Notifier {
	return &Notifier{bot: bot}
}

// SendToChannel posts text to a chat and returns the message id
func (n *Notifier) SendToChannel(ctx context.Context, chatID int64, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg, err := n.bot.Send(&tele.Chat{ID: chatID}, text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// SendDirect sends text as a private message to the user
func (n *Notifier) SendDirect(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.bot.Send(&tele.User{ID: userID}, text)
	return err
}
