package snapshot

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists one snapshot per session.
type Store interface {
	// Load returns the stored snapshot, or nil when the session has none.
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	const query = `SELECT payload FROM cart_snapshots WHERE session_id = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return payload, nil
}

func (s *postgresStore) Save(ctx context.Context, sessionID string, data []byte) error {
	const query = `
INSERT INTO cart_snapshots (session_id, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_id) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, sessionID, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
