package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexibot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleAdd handles /add term | meaning | type | pronunciation | note | YYYY-MM-DD
func (h *Handler) handleAdd(c tele.Context) error {
	userID := c.Sender().ID

	in, err := parseAddArgs(c.Message().Payload, h.clock.Location)
	if err != nil {
		return c.Send(errorText(err))
	}

	ctx, cancel := requestContext()
	defer cancel()

	v, err := h.vocabService.AddVocab(ctx, userID, in)
	if err != nil {
		h.logger.Error("Failed to add vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorText(err))
	}

	return c.Send(fmt.Sprintf("✅ Saved #%d %s = %s\nDue: %s",
		v.ID, v.Term, v.Meaning, domain.DisplayDate(v.DueDate, h.clock.Now())))
}

// parseAddArgs splits the /add payload on "|". Term and meaning are required.
func parseAddArgs(payload string, loc *time.Location) (domain.VocabInput, error) {
	fields := strings.Split(payload, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	in := domain.VocabInput{
		Term:      field(0),
		Meaning:   field(1),
		WordType:  domain.ParseWordType(field(2)),
		Pronounce: field(3),
		Note:      field(4),
	}
	if in.Term == "" || in.Meaning == "" {
		return domain.VocabInput{}, domain.ErrEmptyVocab
	}

	if raw := field(5); raw != "" {
		due, err := domain.ParseDate(raw, loc, time.Time{})
		if err != nil {
			return domain.VocabInput{}, err
		}
		in.DueDate = &due
	}

	return in, nil
}

// handleVocab handles /vocab [YYYY-MM-DD]; the date defaults to tomorrow
func (h *Handler) handleVocab(c tele.Context) error {
	date, err := domain.ParseDate(c.Message().Payload, h.clock.Location, h.clock.Tomorrow())
	if err != nil {
		return c.Send(errorText(err))
	}
	return h.sendVocabList(c, date)
}

// handleVocabButton replaces the menu with the list of due vocabulary
func (h *Handler) handleVocabButton(c tele.Context) error {
	userID := c.Sender().ID
	date := h.clock.Tomorrow()
	if c.Callback().Unique == btnVocabToday.Unique || cleanCallbackData(c.Callback().Data) == btnVocabToday.Unique {
		date = h.clock.Today()
	}

	ctx, cancel := requestContext()
	defer cancel()

	vocabs, err := h.vocabService.ListDue(ctx, userID, date)
	if err != nil {
		h.logger.Error("Failed to list vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: errorText(err)})
	}

	text := formatVocabList(vocabs, date, h.clock.Now())
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

func (h *Handler) sendVocabList(c tele.Context, date time.Time) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	vocabs, err := h.vocabService.ListDue(ctx, userID, date)
	if err != nil {
		h.logger.Error("Failed to list vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorText(err))
	}

	return c.Send(formatVocabList(vocabs, date, h.clock.Now()))
}

func formatVocabList(vocabs []domain.Vocab, date, now time.Time) string {
	label := domain.DisplayDate(date, now)
	if len(vocabs) == 0 {
		return fmt.Sprintf("📭 No vocabulary due %s (%s).", strings.ToLower(label), domain.DateKey(date))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 Vocabulary due %s (%s), %d item(s):\n\n", strings.ToLower(label), domain.DateKey(date), len(vocabs)))
	for _, v := range vocabs {
		sb.WriteString(fmt.Sprintf("#%d %s", v.ID, v.Term))
		if v.WordType != domain.WordTypeUnknown {
			sb.WriteString(fmt.Sprintf(" (%s)", v.WordType))
		}
		if v.Pronounce != "" {
			sb.WriteString(fmt.Sprintf(" /%s/", v.Pronounce))
		}
		sb.WriteString(" = " + v.Meaning)
		if v.Note != "" {
			sb.WriteString("\n   " + v.Note)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// handleDelete handles /delete START [END]
func (h *Handler) handleDelete(c tele.Context) error {
	userID := c.Sender().ID

	start, end, err := parseDeleteArgs(c.Args())
	if err != nil {
		return c.Send(errorText(err))
	}

	ctx, cancel := requestContext()
	defer cancel()

	n, err := h.vocabService.DeleteRange(ctx, userID, start, end)
	if err != nil {
		h.logger.Error("Failed to delete vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorText(err))
	}

	return c.Send(fmt.Sprintf("🗑 Deleted %d item(s).", n))
}

// parseDeleteArgs reads one or two ids; a missing end is returned as zero
func parseDeleteArgs(args []string) (int, int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, domain.ErrInvalidRange
	}

	start, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, domain.ErrInvalidRange
	}
	end := 0
	if len(args) == 2 {
		if end, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, domain.ErrInvalidRange
		}
	}

	return start, end, nil
}
