package remote

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL           string        `envconfig:"GIB_API_BASE_URL" default:"https://www.giberode.com/giberode_app/"`
	Timeout           time.Duration `envconfig:"GIB_HTTP_TIMEOUT" default:"15s"`
	AttendanceTimeout time.Duration `envconfig:"GIB_ATTENDANCE_TIMEOUT" default:"10s"`
	RateLimit         float64       `envconfig:"GIB_RATE_LIMIT" default:"20"`
	RateBurst         int           `envconfig:"GIB_RATE_BURST" default:"10"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
