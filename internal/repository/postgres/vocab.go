package postgres

import (
	"context"
	"database/sql"
	"time"

	"lexibot/internal/domain"
)

// VocabRepo implements repository.VocabRepository
type VocabRepo struct {
	db *sql.DB
}

// NewVocabRepo creates a new vocabulary repository
func NewVocabRepo(db *sql.DB) *VocabRepo {
	return &VocabRepo{db: db}
}

// SaveVocab appends a vocabulary entry and returns its id
func (r *VocabRepo) SaveVocab(ctx context.Context, v domain.Vocab) (int, error) {
	query := `
		INSERT INTO vocabs (user_id, term, meaning, word_type, pronounce, note, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		v.UserID, v.Term, v.Meaning, int(v.WordType), v.Pronounce, v.Note, domain.DateKey(v.DueDate),
	).Scan(&id)
	return id, err
}

// GetDueVocab returns the user's entries due on date, oldest first
func (r *VocabRepo) GetDueVocab(ctx context.Context, userID int64, date time.Time) ([]domain.Vocab, error) {
	query := `
		SELECT id, user_id, term, meaning, word_type, pronounce, note, due_date, created_at
		FROM vocabs
		WHERE user_id = $1 AND due_date = $2 AND is_deleted = FALSE
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, domain.DateKey(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vocabs []domain.Vocab
	for rows.Next() {
		var (
			v        domain.Vocab
			wordType int
		)
		if err := rows.Scan(&v.ID, &v.UserID, &v.Term, &v.Meaning, &wordType, &v.Pronounce, &v.Note, &v.DueDate, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.WordType = domain.WordType(wordType)
		vocabs = append(vocabs, v)
	}

	return vocabs, rows.Err()
}

// CountDueVocab returns how many entries the user has due on date
func (r *VocabRepo) CountDueVocab(ctx context.Context, userID int64, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM vocabs
		WHERE user_id = $1 AND due_date = $2 AND is_deleted = FALSE
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, domain.DateKey(date)).Scan(&count)
	return count, err
}

// DeleteVocabRange soft-deletes the user's entries with ids in [startID, endID]
func (r *VocabRepo) DeleteVocabRange(ctx context.Context, userID int64, startID, endID int) (int64, error) {
	query := `
		UPDATE vocabs
		SET is_deleted = TRUE
		WHERE user_id = $1 AND id BETWEEN $2 AND $3 AND is_deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, userID, startID, endID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeDeletedVocab removes soft-deleted entries created more than days ago
func (r *VocabRepo) PurgeDeletedVocab(ctx context.Context, days int) (int64, error) {
	query := `
		DELETE FROM vocabs
		WHERE is_deleted = TRUE AND created_at < NOW() - INTERVAL '1 day' * $1
	`
	res, err := r.db.ExecContext(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
