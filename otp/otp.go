package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	ProviderFirebase = "firebase"
	ProviderStatic   = "static"
)

// Verification is a pending SMS code challenge
type Verification struct {
	PhoneNumber string
	SessionInfo string
	SentAt      time.Time
}

// Credential is the identity the provider confirmed
type Credential struct {
	PhoneNumber string
	Token       *oauth2.Token
}

//go:generate mockgen --build_flags=--mod=mod -source=./otp.go -destination=./test/mock_provider.go -package test Provider
type Provider interface {
	SendCode(ctx context.Context, phoneNumber string) (*Verification, error)
	Confirm(ctx context.Context, verification *Verification, code string) (*Credential, error)
	SignOut(ctx context.Context) error
}

type Config struct {
	Provider       string `envconfig:"GIB_OTP_PROVIDER" default:"firebase"`
	APIKey         string `envconfig:"GIB_FIREBASE_API_KEY"`
	BaseURL        string `envconfig:"GIB_FIREBASE_BASE_URL" default:"https://identitytoolkit.googleapis.com/v1/"`
	RecaptchaToken string `envconfig:"GIB_FIREBASE_RECAPTCHA_TOKEN"`
	StaticCode     string `envconfig:"GIB_OTP_STATIC_CODE"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewProvider(cfg *Config, logger *zap.SugaredLogger) (Provider, error) {
	switch cfg.Provider {
	case ProviderStatic:
		if cfg.StaticCode == "" {
			return nil, fmt.Errorf("static otp provider requires GIB_OTP_STATIC_CODE")
		}
		logger.Warn("using the static otp provider, codes are not sent by sms")
		return NewStaticProvider(cfg.StaticCode), nil
	case ProviderFirebase, "":
		return NewFirebaseProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported otp provider %q", cfg.Provider)
	}
}
