package otp

import (
	"context"
	"time"

	errs "github.com/giberode/gib/errors"
)

// staticProvider accepts one configured code for every phone. It never sends SMS.
type staticProvider struct {
	code string
}

var _ Provider = &staticProvider{}

func NewStaticProvider(code string) Provider {
	return &staticProvider{code: code}
}

func (s *staticProvider) SendCode(ctx context.Context, phoneNumber string) (*Verification, error) {
	return &Verification{
		PhoneNumber: phoneNumber,
		SessionInfo: "static",
		SentAt:      time.Now(),
	}, nil
}

func (s *staticProvider) Confirm(ctx context.Context, verification *Verification, code string) (*Credential, error) {
	if verification == nil {
		return nil, errs.WithMessage(errs.Authentication, "Session expired. Request a new OTP.")
	}
	if code != s.code {
		return nil, errs.WithMessage(errs.Authentication, "Invalid OTP")
	}
	return &Credential{PhoneNumber: verification.PhoneNumber}, nil
}

func (s *staticProvider) SignOut(ctx context.Context) error {
	return nil
}
