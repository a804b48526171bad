package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const checkTimeout = 5 * time.Second

const notRegisteredText = "👋 Please register first: /register HH:MM HH:MM\n\nThe first time is your add-vocabulary reminder, the second your quiz reminder."

// RegistrationChecker reports whether a user has registered
type RegistrationChecker interface {
	IsRegistered(ctx context.Context, userID int64) (bool, error)
}

// RequireRegistration creates middleware that only lets registered users through
func RequireRegistration(users RegistrationChecker, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()

			registered, err := users.IsRegistered(ctx, sender.ID)
			if err != nil {
				logger.Error("Failed to check registration in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				return c.Send("Something went wrong. Please try again later.")
			}

			if !registered {
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return c.Send(notRegisteredText)
			}

			return next(c)
		}
	}
}
