package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lexibot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestResultRepo_SaveResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewResultRepo(db)

	started := time.Date(2024, 6, 16, 20, 1, 0, 0, time.UTC)
	res := domain.QuizResult{
		UserID:       123,
		TestDate:     time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
		Passed:       true,
		CorrectCount: 4,
		TotalCount:   5,
		CreatedAt:    started,
	}

	mock.ExpectExec("INSERT INTO results").
		WithArgs(int64(123), "2024-06-16", true, 4, 5, started).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveResult(context.Background(), res)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_HasPassingResult(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      bool
		expectedError bool
	}{
		{
			name:     "passed today",
			mockRows: sqlmock.NewRows([]string{"exists"}).AddRow(true),
			expected: true,
		},
		{
			name:     "not passed",
			mockRows: sqlmock.NewRows([]string{"exists"}).AddRow(false),
			expected: false,
		},
		{
			name:          "query error",
			mockError:     fmt.Errorf("query error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewResultRepo(db)

			query := "SELECT EXISTS \\( SELECT 1 FROM results WHERE user_id = \\$1 AND test_date = \\$2 AND passed = TRUE \\)"
			expectation := mock.ExpectQuery(query).WithArgs(int64(123), "2024-06-16")
			if tt.mockError != nil {
				expectation.WillReturnError(tt.mockError)
			} else {
				expectation.WillReturnRows(tt.mockRows)
			}

			passed, err := repo.HasPassingResult(context.Background(), 123, time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC))

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, passed)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
