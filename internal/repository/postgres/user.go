package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"lexibot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// UpsertUser registers a user or updates the reminder times of an existing one
func (r *UserRepo) UpsertUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, add_vocab_time, quiz_time, is_deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (user_id)
		DO UPDATE SET username = $2, add_vocab_time = $3, quiz_time = $4, is_deleted = FALSE
	`
	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.AddVocabTime.String(), user.QuizTime.String(),
	)
	return err
}

// GetUser returns a registered user, or nil if the user is unknown or deleted
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT user_id, username, add_vocab_time, quiz_time, created_at, is_deleted
		FROM users
		WHERE user_id = $1 AND is_deleted = FALSE
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListActiveUsers returns all users that are not deleted
func (r *UserRepo) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT user_id, username, add_vocab_time, quiz_time, created_at, is_deleted
		FROM users
		WHERE is_deleted = FALSE
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                  domain.User
		addVocab, quizTime string
	)
	if err := row.Scan(&u.UserID, &u.Username, &addVocab, &quizTime, &u.CreatedAt, &u.Deleted); err != nil {
		return nil, err
	}

	var err error
	if u.AddVocabTime, err = domain.ParseTimeOfDay(addVocab); err != nil {
		return nil, fmt.Errorf("user %d add_vocab_time: %w", u.UserID, err)
	}
	if u.QuizTime, err = domain.ParseTimeOfDay(quizTime); err != nil {
		return nil, fmt.Errorf("user %d quiz_time: %w", u.UserID, err)
	}

	return &u, nil
}
