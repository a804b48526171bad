package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const helpText = `🏠 Vocabulary trainer

/register HH:MM HH:MM - set your add-vocabulary and quiz reminder times
/add term | meaning | type | pronunciation | note | YYYY-MM-DD - add a word (due tomorrow unless dated)
/vocab [YYYY-MM-DD] - list words due on a date (tomorrow by default)
/delete START [END] - delete words by id
/starttest [YYYY-MM-DD] [term|meaning] - start a quiz (today by default)
/endtest - end the current quiz
/users - list registered users

During a quiz, just reply with your answer.`

// handleStart handles /start and /help
func (h *Handler) handleStart(c tele.Context) error {
	h.logger.Info("User opened menu",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("username", c.Sender().Username),
	)

	return c.Send(helpText, mainMenuMarkup())
}

func (h *Handler) handleHelpButton(c tele.Context) error {
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.handleStart(c)
}

// handleMainMenu turns the current message back into the menu
func (h *Handler) handleMainMenu(c tele.Context) error {
	userID := c.Sender().ID

	if err := c.Edit(helpText, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(helpText, mainMenuMarkup())
	}
	return c.Respond()
}
