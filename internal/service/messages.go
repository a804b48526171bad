package service

import (
	"fmt"
	"strings"

	"lexibot/internal/domain"
)

// ReminderKind identifies one of the two daily reminders
type ReminderKind string

const (
	ReminderAddVocab ReminderKind = "add-vocab"
	ReminderQuiz     ReminderKind = "do-test"
)

// FormatQuestion renders a quiz prompt
func FormatQuestion(q domain.Question) string {
	title := "❓ What is the foreign word for this meaning?"
	if q.Direction == domain.TermToMeaning {
		title = "❓ What does this word mean?"
	}
	return fmt.Sprintf("%s\n\n%s\n\nQuestion %d/%d · reply with your answer", title, q.Prompt, q.Number, q.Total)
}

// FormatFeedback renders the verdict on one answer
func FormatFeedback(correct bool, expected string) string {
	if correct {
		return "✅ Correct!"
	}
	return fmt.Sprintf("❌ Wrong! The correct answer is: %s", strings.TrimSpace(expected))
}

// FormatResult renders the summary of a finished quiz
func FormatResult(r domain.QuizResult) string {
	var sb strings.Builder

	sb.WriteString("🎉 Your quiz result\n\n")
	if r.Forced {
		sb.WriteString(fmt.Sprintf("The quiz was ended early after %d answer(s).\n", r.TotalCount))
	} else {
		sb.WriteString(fmt.Sprintf("You answered all %d questions.\n", r.TotalCount))
	}
	sb.WriteString(fmt.Sprintf("Correct: %d\nTotal: %d\nScore: %.2f%%\n\n", r.CorrectCount, r.TotalCount, r.Score()*100))

	if r.Passed {
		sb.WriteString("✅ PASSED! Congratulations!")
	} else {
		sb.WriteString("❌ NOT PASSED. Keep practising!")
	}

	return sb.String()
}

// ReminderText returns the notification sent for a reminder kind
func ReminderText(kind ReminderKind) string {
	switch kind {
	case ReminderAddVocab:
		return "🔔 Vocabulary reminder!\n\nIt's time to stock up your word list. Use /add to add new words for tomorrow."
	case ReminderQuiz:
		return "⏰ Quiz reminder!\n\nIt's time for today's vocabulary quiz. Use /starttest to begin."
	}
	return ""
}
