package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yegors/preflight/pkg/logger"
)

// KVStore persists opaque blobs by key
type KVStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewKVStore creates a key-value store on the shared database
func NewKVStore(db *DB) *KVStore {
	return &KVStore{
		db:     db.db,
		logger: db.logger.Named("kv"),
	}
}

// Get returns the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	s.logger.Debug("Stored value",
		logger.String("key", key),
		logger.Int("bytes", len(value)))
	return nil
}
