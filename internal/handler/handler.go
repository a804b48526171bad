package handler

import (
	"context"
	"errors"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/middleware"
	"lexibot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the work done for one update
const requestTimeout = 15 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	userService  *service.UserService
	vocabService *service.VocabService
	quizService  *service.QuizService
	clock        service.Clock
	logger       *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	userService *service.UserService,
	vocabService *service.VocabService,
	quizService *service.QuizService,
	clock service.Clock,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:          bot,
		userService:  userService,
		vocabService: vocabService,
		quizService:  quizService,
		clock:        clock,
		logger:       logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleStart)
	h.bot.Handle("/register", h.handleRegister)
	h.bot.Handle(&btnHelp, h.handleHelpButton)
	h.bot.Handle(&btnMainMenu, h.handleMainMenu)

	// Quiz answers
	h.bot.Handle(tele.OnText, h.handleText)

	registered := h.bot.Group()
	registered.Use(middleware.RequireRegistration(h.userService, h.logger))

	registered.Handle("/users", h.handleUsers)
	registered.Handle("/add", h.handleAdd)
	registered.Handle("/vocab", h.handleVocab)
	registered.Handle("/delete", h.handleDelete)
	registered.Handle("/starttest", h.handleStartTest)
	registered.Handle("/endtest", h.handleEndTest)

	// Callback queries (inline buttons)
	registered.Handle(&btnVocabToday, h.handleVocabButton)
	registered.Handle(&btnVocabTomorrow, h.handleVocabButton)
	registered.Handle(&btnStartTest, h.handleStartTestButton)
	registered.Handle(&btnEndTest, h.handleEndTestButton)

	// Generic callback handler for buttons whose unique did not come through
	registered.Handle(tele.OnCallback, h.handleCallback)
}

// requestContext returns the context used for one update
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// errorText turns a service error into a message for the user
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyActive):
		return "⚠️ You already have a quiz in progress. Answer the current question or use /endtest."
	case errors.Is(err, domain.ErrEmptyItemSet):
		return "📭 There is no vocabulary due for that date."
	case errors.Is(err, domain.ErrNoActiveSession):
		return "ℹ️ You have no quiz in progress. Use /starttest to begin."
	case errors.Is(err, domain.ErrNotRegistered):
		return "👋 Please register first: /register HH:MM HH:MM"
	case errors.Is(err, domain.ErrInvalidTime):
		return "⚠️ Times must look like HH:MM, e.g. /register 08:00 21:00"
	case errors.Is(err, domain.ErrInvalidDate):
		return "⚠️ Dates must look like YYYY-MM-DD."
	case errors.Is(err, domain.ErrInvalidDirection):
		return "⚠️ Direction must be \"term\" (answer with the word) or \"meaning\" (answer with the meaning)."
	case errors.Is(err, domain.ErrInvalidRange):
		return "⚠️ Usage: /delete START [END] with START ≥ 1 and END ≥ START."
	case errors.Is(err, domain.ErrEmptyVocab):
		return "⚠️ Usage: /add term | meaning | type | pronunciation | note | YYYY-MM-DD"
	}
	return "Something went wrong. Please try again later."
}

// Inline keyboard buttons
var (
	btnVocabToday = tele.Btn{
		Unique: "vocab_today",
		Text:   "📖 Due today",
	}
	btnVocabTomorrow = tele.Btn{
		Unique: "vocab_tomorrow",
		Text:   "📅 Due tomorrow",
	}
	btnStartTest = tele.Btn{
		Unique: "start_test",
		Text:   "📝 Start today's quiz",
	}
	btnEndTest = tele.Btn{
		Unique: "end_test",
		Text:   "🛑 End quiz",
	}
	btnHelp = tele.Btn{
		Unique: "help",
		Text:   "❔ Help",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnVocabToday, btnVocabTomorrow),
		menu.Row(btnStartTest, btnEndTest),
		menu.Row(btnHelp),
	)
	return menu
}
