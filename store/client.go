package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ContextTimeout = time.Duration(5) * time.Second
)

func NewClient(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	// Writers are serialized through a single connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), ContextTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to sqlite: %w", err)
	}

	return db, nil
}
