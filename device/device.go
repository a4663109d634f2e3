package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"github.com/giberode/gib/store"
)

const key = "device_id"

type Config struct {
	// Override pins the identifier instead of generating one
	Override string `envconfig:"GIB_DEVICE_ID"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Identity is the stable identifier of this installation. It lives outside the
// session namespace so it survives logout.
type Identity struct {
	kv       store.KeyValue
	override string

	mu sync.Mutex
	id string
}

func NewIdentity(cfg *Config, db store.Database) *Identity {
	return &Identity{
		kv:       db.Namespace(store.DeviceNamespace),
		override: cfg.Override,
	}
}

func (i *Identity) ID(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.override != "" {
		return i.override, nil
	}
	if i.id != "" {
		return i.id, nil
	}

	id, ok, err := i.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("unable to read device id: %w", err)
	}
	if !ok || id == "" {
		id = uuid.NewString()
		if err := i.kv.Set(ctx, key, id); err != nil {
			return "", fmt.Errorf("unable to persist device id: %w", err)
		}
	}

	i.id = id
	return id, nil
}
