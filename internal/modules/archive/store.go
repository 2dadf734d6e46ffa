// README: trip_plans persistence backed by pgxpool.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Append inserts r and returns its id.
func (s *Store) Append(ctx context.Context, r Record) (int64, error) {
	entities, err := json.Marshal(r.Entities)
	if err != nil {
		return 0, fmt.Errorf("encode entities: %w", err)
	}
	var id int64
	err = s.db.QueryRow(ctx, `
		INSERT INTO trip_plans (session_id, user_id, intent, entities, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.SessionID, r.UserID, string(r.Intent), entities, r.Result).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert trip plan: %w", err)
	}
	return id, nil
}

// ListBySession returns up to limit plans for sessionID, newest first.
func (s *Store) ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, user_id, intent, entities, result, created_at
		FROM trip_plans
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list trip plans: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			in      string
			rawEnts []byte
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.UserID, &in, &rawEnts, &r.Result, &r.CreatedAt); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := json.Unmarshal(rawEnts, &raw); err != nil {
			return nil, fmt.Errorf("decode entities for plan %d: %w", r.ID, err)
		}
		r.Intent = intent.Parse(in)
		r.Entities = entity.Normalize(raw)
		out = append(out, r)
	}
	return out, rows.Err()
}
