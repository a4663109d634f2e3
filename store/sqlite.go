package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteDatabase struct {
	db *sql.DB
}

var _ Database = &SQLiteDatabase{}

func NewSQLiteDatabase(db *sql.DB) (*SQLiteDatabase, error) {
	s := &SQLiteDatabase{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteDatabase) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	);`
	ctx, cancel := context.WithTimeout(context.Background(), ContextTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("unable to migrate sqlite store: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Namespace(ns Namespace) KeyValue {
	return &sqliteNamespace{db: s.db, ns: ns}
}

func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

type sqliteNamespace struct {
	db *sql.DB
	ns Namespace
}

func (s *sqliteNamespace) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE namespace = ? AND key = ?`, string(s.ns), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("unable to get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sqliteNamespace) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			result[key] = value
		}
	}
	return result, nil
}

func (s *sqliteNamespace) Set(ctx context.Context, key, value string) error {
	return s.MultiSet(ctx, map[string]string{key: value})
}

func (s *sqliteNamespace) MultiSet(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`, string(s.ns), key, value)
		if err != nil {
			return fmt.Errorf("unable to set %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *sqliteNamespace) Remove(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND key = ?`, string(s.ns), key); err != nil {
			return fmt.Errorf("unable to remove %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *sqliteNamespace) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, string(s.ns)); err != nil {
		return fmt.Errorf("unable to clear %s: %w", s.ns, err)
	}
	return nil
}

func (s *sqliteNamespace) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv WHERE namespace = ? ORDER BY key`, string(s.ns))
	if err != nil {
		return nil, fmt.Errorf("unable to list keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
