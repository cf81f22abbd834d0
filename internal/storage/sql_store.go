package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SQLStore keeps values in the kv_store table
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLStore creates a store over db. The kv_store table must exist, see OpenSQLite.
func NewSQLStore(db *sql.DB, logger *zap.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		logger: logger,
	}
}

// Get returns the value stored under key
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_store WHERE name = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		s.logger.Error("failed to query value", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to query value: %w", err)
	}

	return value, true, nil
}

// Set stores value under key
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		s.logger.Error("failed to store value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to store value: %w", err)
	}

	return nil
}

// Delete removes key
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE name = ?`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		s.logger.Error("failed to delete value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}
