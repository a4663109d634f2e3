package store

import (
	"context"
	"fmt"

	"go.uber.org/fx"
)

// Namespace partitions the flat key space. Clearing one namespace never touches another.
type Namespace string

const (
	SessionNamespace Namespace = "session"
	DeviceNamespace  Namespace = "device"
)

// KeyValue is a flat string-keyed store. Missing keys are not an error.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	MultiSet(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}

type Database interface {
	Namespace(ns Namespace) KeyValue
	Close() error
}

func NewDatabase(cfg *Config, lifecycle fx.Lifecycle) (Database, error) {
	var db Database
	switch cfg.Driver {
	case DriverMemory:
		db = NewMemoryDatabase()
	case DriverSQLite, "":
		dsn, err := cfg.GetConnectionString()
		if err != nil {
			return nil, err
		}
		client, err := NewClient(dsn)
		if err != nil {
			return nil, err
		}
		if db, err = NewSQLiteDatabase(client); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}
