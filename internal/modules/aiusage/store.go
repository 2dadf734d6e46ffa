// README: ai_usage persistence (atomic monthly decrement with lazy reset).
package aiusage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseToken atomically checks the quota for month and deducts one token,
// resetting to allowance when the row belongs to an earlier month.
// Returns ErrInsufficientTokens when no row is updated (exhausted or absent).
func (s *Store) UseToken(ctx context.Context, uid string, allowance int, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, allowance, uid)
	if err != nil {
		return fmt.Errorf("use token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a row with the full allowance; existing rows are left alone.
func (s *Store) EnsureUser(ctx context.Context, uid string, allowance int, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, allowance, month)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// Remaining reports the tokens left for month without consuming any.
func (s *Store) Remaining(ctx context.Context, uid string, allowance int, month string) (int, error) {
	var remaining int
	var lastMonth string
	err := s.db.QueryRow(ctx,
		`SELECT tokens_remaining, last_reset_month FROM ai_usage WHERE uid = $1`, uid,
	).Scan(&remaining, &lastMonth)
	if errors.Is(err, pgx.ErrNoRows) {
		return allowance, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read remaining: %w", err)
	}
	if lastMonth < month {
		return allowance, nil
	}
	return remaining, nil
}
