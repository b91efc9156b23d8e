package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"dog-adoption-search/internal/ports/localstore"
)

// LocalStore persiste el estado por usuario en la tabla local_state.
type LocalStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db, now: time.Now}
}

func (s *LocalStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, localstore.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM local_state
		WHERE namespace = $1 AND key = $2
	`, namespace, key)

	var v []byte
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, localstore.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *LocalStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_state (namespace, key, value, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`,
		namespace,
		key,
		string(value),
		s.now().UTC(),
	)
	return err
}

func (s *LocalStore) Clear(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM local_state
		WHERE namespace = $1
	`, namespace)
	return err
}
