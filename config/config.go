package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/giberode/gib/version"
)

type Config struct {
	AppVersion          string        `envconfig:"GIB_APP_VERSION"`
	SplashDuration      time.Duration `envconfig:"GIB_SPLASH_DURATION" default:"3s"`
	DeviceCheckInterval time.Duration `envconfig:"GIB_DEVICE_CHECK_INTERVAL" default:"5s"`
	DaemonAddress       string        `envconfig:"GIB_DAEMON_ADDRESS" default:":8080" required:"true"`
	PlayStoreURL        string        `envconfig:"GIB_PLAY_STORE_URL" default:"https://play.google.com/store/apps/details?id=com.gib_unite.app"`
	NoticeCapacity      int           `envconfig:"GIB_NOTICE_CAPACITY" default:"32"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	if c.AppVersion == "" {
		c.AppVersion = version.Current
	}
	return nil
}

// NewConfig loads the configuration from the environment
func NewConfig() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
