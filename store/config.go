package store

import "github.com/kelseyhightower/envconfig"

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	Driver string `envconfig:"GIB_STORE_DRIVER" default:"sqlite"`
	Path   string `envconfig:"GIB_STORE_PATH" default:"gib.db"`
}

func (c *Config) GetConnectionString() (string, error) {
	if c.Path == "" {
		return "file::memory:?cache=shared", nil
	}
	return "file:" + c.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
}
