package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var quizNow = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

func newTestQuizService() (*QuizService, *testutil.MockVocabRepository, *testutil.MockResultRepository, *testutil.MockMessenger) {
	vocabRepo := new(testutil.MockVocabRepository)
	resultRepo := new(testutil.MockResultRepository)
	messenger := new(testutil.MockMessenger)
	clock := Clock{Location: time.UTC, NowFunc: testutil.FixedNow(quizNow)}

	s := NewQuizService(NewSessionRegistry(), vocabRepo, resultRepo, messenger, clock, testutil.NewTestLogger())
	// Keep item order stable
	s.shuffle = func(int, func(i, j int)) {}
	return s, vocabRepo, resultRepo, messenger
}

func fiveItems() []domain.QuizItem {
	return testutil.NewTestItems(
		[2]string{"cat", "con mèo"},
		[2]string{"dog", "con chó"},
		[2]string{"bird", "con chim"},
		[2]string{"fish", "con cá"},
		[2]string{"cow", "con bò"},
	)
}

func TestQuizService_FullRun(t *testing.T) {
	ctx := context.Background()
	s, _, resultRepo, messenger := newTestQuizService()

	messenger.On("SendToChannel", mock.Anything, int64(555), mock.Anything).Return(10, nil)
	resultRepo.On("SaveResult", mock.Anything, mock.MatchedBy(func(r domain.QuizResult) bool {
		return r.UserID == 1 && r.CorrectCount == 4 && r.TotalCount == 5 && r.Passed && !r.Forced
	})).Return(nil).Once()

	req := StartRequest{UserID: 1, ChatID: 555, TestDate: quizNow, Direction: domain.TermToMeaning}
	q, err := s.Begin(ctx, req, fiveItems())
	require.NoError(t, err)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, 5, q.Total)
	assert.Equal(t, "cat", q.Prompt)
	assert.True(t, s.IsActive(1))

	answers := []string{"  CON MÈO ", "con chó", "wrong", "con cá", "Con Bò"}
	var last *AnswerOutcome
	for i, a := range answers {
		out, err := s.SubmitAnswer(ctx, 1, a)
		require.NoError(t, err)
		require.NotNil(t, out)
		if i < len(answers)-1 {
			require.NotNil(t, out.Next)
			assert.Equal(t, i+2, out.Next.Number)
			assert.Nil(t, out.Result)
		}
		last = out
	}

	require.NotNil(t, last.Result)
	assert.Nil(t, last.Next)
	assert.Equal(t, 4, last.Result.CorrectCount)
	assert.Equal(t, 5, last.Result.TotalCount)
	assert.True(t, last.Result.Passed)
	assert.Equal(t, quizNow, last.Result.CreatedAt)
	assert.False(t, s.IsActive(1))

	resultRepo.AssertNumberOfCalls(t, "SaveResult", 1)
	messenger.AssertCalled(t, "SendToChannel", mock.Anything, int64(555), FormatResult(*last.Result))
	messenger.AssertNotCalled(t, "SendDirect", mock.Anything, mock.Anything, mock.Anything)

	// Further text is ignored once the quiz is over
	out, err := s.SubmitAnswer(ctx, 1, "extra")
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestQuizService_FailingRun(t *testing.T) {
	ctx := context.Background()
	s, _, resultRepo, messenger := newTestQuizService()

	messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
	resultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)

	items := testutil.NewTestItems([2]string{"a", "1"}, [2]string{"b", "2"}, [2]string{"c", "3"})
	_, err := s.Begin(ctx, StartRequest{UserID: 2, ChatID: 9, Direction: domain.MeaningToTerm}, items)
	require.NoError(t, err)

	var out *AnswerOutcome
	for _, a := range []string{"a", "b", "x"} {
		out, err = s.SubmitAnswer(ctx, 2, a)
		require.NoError(t, err)
	}

	require.NotNil(t, out.Result)
	assert.Equal(t, 2, out.Result.CorrectCount)
	assert.False(t, out.Result.Passed)
}

func TestQuizService_Begin_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty item set", func(t *testing.T) {
		s, _, _, _ := newTestQuizService()
		_, err := s.Begin(ctx, StartRequest{UserID: 1, Direction: domain.MeaningToTerm}, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyItemSet)
		assert.False(t, s.IsActive(1))
	})

	t.Run("invalid direction", func(t *testing.T) {
		s, _, _, _ := newTestQuizService()
		_, err := s.Begin(ctx, StartRequest{UserID: 1, Direction: "sideways"}, fiveItems())
		assert.ErrorIs(t, err, domain.ErrInvalidDirection)
		assert.False(t, s.IsActive(1))
	})

	t.Run("already active", func(t *testing.T) {
		s, _, _, messenger := newTestQuizService()
		messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)

		req := StartRequest{UserID: 1, ChatID: 3, Direction: domain.MeaningToTerm}
		_, err := s.Begin(ctx, req, fiveItems())
		require.NoError(t, err)
		_, err = s.SubmitAnswer(ctx, 1, "cat")
		require.NoError(t, err)

		_, err = s.Begin(ctx, req, fiveItems())
		assert.ErrorIs(t, err, domain.ErrAlreadyActive)

		session, ok := s.registry.Get(1)
		require.True(t, ok)
		assert.Equal(t, 1, session.Cursor)
	})
}

func TestQuizService_Start(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("loads due vocabulary", func(t *testing.T) {
		s, vocabRepo, _, messenger := newTestQuizService()
		vocabRepo.On("GetDueVocab", mock.Anything, int64(1), day).Return([]domain.Vocab{
			testutil.NewTestVocab(1, 1, "cat", "con mèo", day),
			testutil.NewTestVocab(2, 1, "dog", "con chó", day),
		}, nil)
		messenger.On("SendToChannel", mock.Anything, int64(4), mock.Anything).Return(77, nil)

		q, err := s.Start(ctx, StartRequest{UserID: 1, ChatID: 4, TestDate: day, Direction: domain.MeaningToTerm})
		require.NoError(t, err)
		assert.Equal(t, "con mèo", q.Prompt)
		assert.Equal(t, 2, q.Total)

		session, ok := s.registry.Get(1)
		require.True(t, ok)
		assert.Equal(t, 77, session.PromptMessageID)
		assert.Equal(t, day, session.TestDate)
	})

	t.Run("nothing due", func(t *testing.T) {
		s, vocabRepo, _, _ := newTestQuizService()
		vocabRepo.On("GetDueVocab", mock.Anything, int64(1), day).Return([]domain.Vocab{}, nil)

		_, err := s.Start(ctx, StartRequest{UserID: 1, TestDate: day, Direction: domain.MeaningToTerm})
		assert.ErrorIs(t, err, domain.ErrEmptyItemSet)
	})

	t.Run("repository error", func(t *testing.T) {
		s, vocabRepo, _, _ := newTestQuizService()
		vocabRepo.On("GetDueVocab", mock.Anything, int64(1), day).Return(nil, errors.New("db down"))

		_, err := s.Start(ctx, StartRequest{UserID: 1, TestDate: day, Direction: domain.MeaningToTerm})
		assert.Error(t, err)
		assert.False(t, s.IsActive(1))
	})
}

func TestQuizService_End(t *testing.T) {
	ctx := context.Background()

	t.Run("no active session", func(t *testing.T) {
		s, _, _, _ := newTestQuizService()
		_, err := s.End(ctx, 1, true)
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	})

	t.Run("forced end scores attempted answers", func(t *testing.T) {
		s, _, resultRepo, messenger := newTestQuizService()
		messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
		resultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := s.Begin(ctx, StartRequest{UserID: 1, ChatID: 2, Direction: domain.MeaningToTerm}, fiveItems())
		require.NoError(t, err)
		_, _ = s.SubmitAnswer(ctx, 1, "cat")
		_, _ = s.SubmitAnswer(ctx, 1, "dog")

		result, err := s.End(ctx, 1, true)
		require.NoError(t, err)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 2, result.TotalCount)
		assert.True(t, result.Passed)
		assert.True(t, result.Forced)
		assert.False(t, s.IsActive(1))

		_, err = s.End(ctx, 1, true)
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
		resultRepo.AssertNumberOfCalls(t, "SaveResult", 1)
	})

	t.Run("forced end without answers", func(t *testing.T) {
		s, _, resultRepo, messenger := newTestQuizService()
		messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
		resultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := s.Begin(ctx, StartRequest{UserID: 1, ChatID: 2, Direction: domain.MeaningToTerm}, fiveItems())
		require.NoError(t, err)

		result, err := s.End(ctx, 1, true)
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalCount)
		assert.False(t, result.Passed)
	})
}

func TestQuizService_DeliveryFallbackAndPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	s, _, resultRepo, messenger := newTestQuizService()

	items := testutil.NewTestItems([2]string{"cat", "con mèo"})
	messenger.On("SendToChannel", mock.Anything, int64(8), FormatQuestion(domain.Question{
		Number: 1, Total: 1, Direction: domain.MeaningToTerm, Prompt: "con mèo",
	})).Return(1, nil)
	messenger.On("SendToChannel", mock.Anything, int64(8), FormatFeedback(true, "cat")).Return(2, nil)
	messenger.On("SendToChannel", mock.Anything, int64(8), mock.Anything).Return(0, errors.New("chat gone"))
	messenger.On("SendDirect", mock.Anything, int64(1), mock.Anything).Return(nil).Once()
	resultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := s.Begin(ctx, StartRequest{UserID: 1, ChatID: 8, Direction: domain.MeaningToTerm}, items)
	require.NoError(t, err)

	out, err := s.SubmitAnswer(ctx, 1, "cat")
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Passed)

	// The session is gone even though persistence failed
	assert.False(t, s.IsActive(1))
	messenger.AssertNumberOfCalls(t, "SendDirect", 1)
	resultRepo.AssertExpectations(t)
}

func TestQuizService_ConcurrentEndAndLastAnswer(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s, _, resultRepo, messenger := newTestQuizService()
		messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
		resultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)

		items := testutil.NewTestItems([2]string{"a", "1"}, [2]string{"b", "2"})
		_, err := s.Begin(ctx, StartRequest{UserID: 1, ChatID: 2, Direction: domain.MeaningToTerm}, items)
		require.NoError(t, err)
		_, err = s.SubmitAnswer(ctx, 1, "a")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.SubmitAnswer(ctx, 1, "b")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.End(ctx, 1, true)
		}()
		wg.Wait()

		assert.False(t, s.IsActive(1))
		resultRepo.AssertNumberOfCalls(t, "SaveResult", 1)
	}
}

func TestQuizService_EndIdle(t *testing.T) {
	ctx := context.Background()
	s, _, resultRepo, messenger := newTestQuizService()
	messenger.On("SendToChannel", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
	resultRepo.On("SaveResult", mock.Anything, mock.MatchedBy(func(r domain.QuizResult) bool {
		return r.UserID == 1 && r.Forced
	})).Return(nil).Once()

	_, err := s.Begin(ctx, StartRequest{UserID: 1, ChatID: 2, Direction: domain.MeaningToTerm}, fiveItems())
	require.NoError(t, err)
	_, err = s.Begin(ctx, StartRequest{UserID: 2, ChatID: 2, Direction: domain.MeaningToTerm}, fiveItems())
	require.NoError(t, err)

	// User 2 answered recently
	later := quizNow.Add(20 * time.Minute)
	s.clock.NowFunc = testutil.FixedNow(later)
	_, err = s.SubmitAnswer(ctx, 2, "cat")
	require.NoError(t, err)

	assert.Equal(t, 1, s.EndIdle(ctx, 15*time.Minute))
	assert.False(t, s.IsActive(1))
	assert.True(t, s.IsActive(2))
	resultRepo.AssertExpectations(t)
}
