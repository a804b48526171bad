package postgres

import (
	"context"
	"database/sql"
	"time"

	"lexibot/internal/domain"
)

// ResultRepo implements repository.ResultRepository
type ResultRepo struct {
	db *sql.DB
}

// NewResultRepo creates a new quiz result repository
func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveResult appends a quiz result record
func (r *ResultRepo) SaveResult(ctx context.Context, res domain.QuizResult) error {
	query := `
		INSERT INTO results (user_id, test_date, passed, correct_count, total_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		res.UserID, domain.DateKey(res.TestDate), res.Passed, res.CorrectCount, res.TotalCount, res.CreatedAt,
	)
	return err
}

// HasPassingResult reports whether the user passed a quiz for date
func (r *ResultRepo) HasPassingResult(ctx context.Context, userID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM results
			WHERE user_id = $1 AND test_date = $2 AND passed = TRUE
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, domain.DateKey(date)).Scan(&exists)
	return exists, err
}
