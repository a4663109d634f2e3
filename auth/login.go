package auth

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/giberode/gib/config"
	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/otp"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
)

const (
	countryCode = "+91"
	phoneLength = 10
	codeLength  = 6

	DefaultResendAfter = 30 * time.Second
)

//go:generate mockgen --build_flags=--mod=mod -source=./login.go -destination=./test/mock_backend.go -package test Backend,DeviceIdentity
type Backend interface {
	Login(ctx context.Context, phone string) (*remote.LoginResponse, error)
	CheckDeviceID(ctx context.Context, phone, deviceID string) (*remote.StatusResponse, error)
	UpdateDeviceID(ctx context.Context, phone, deviceID string) (*remote.StatusResponse, error)
	ClearDeviceID(ctx context.Context, phone string) (*remote.StatusResponse, error)
	RegisterMember(ctx context.Context, name, phone, email string) (*remote.StatusResponse, error)
	LogoutDevice(ctx context.Context, phone string) (*remote.DeviceStatus, error)
}

type DeviceIdentity interface {
	ID(ctx context.Context) (string, error)
}

// Login drives the phone and OTP sign in. At most one verification is pending.
type Login struct {
	backend     Backend
	provider    otp.Provider
	sessions    *session.Manager
	device      DeviceIdentity
	appVersion  string
	resendAfter time.Duration
	logger      *zap.SugaredLogger

	mu      sync.Mutex
	phone   string
	pending *otp.Verification
}

func NewLogin(cfg *config.Config, backend Backend, provider otp.Provider, sessions *session.Manager, device DeviceIdentity, logger *zap.SugaredLogger) *Login {
	return &Login{
		backend:     backend,
		provider:    provider,
		sessions:    sessions,
		device:      device,
		appVersion:  cfg.AppVersion,
		resendAfter: DefaultResendAfter,
		logger:      logger,
	}
}

// SanitizePhone keeps the digits of input, truncated to ten
func SanitizePhone(input string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
	if len(digits) > phoneLength {
		digits = digits[:phoneLength]
	}
	return digits
}

// SendCode checks the device and the registration of the phone and sends an OTP
func (l *Login) SendCode(ctx context.Context, phoneInput string) error {
	phone := SanitizePhone(phoneInput)
	if len(phone) != phoneLength {
		return ErrInvalidPhone
	}

	deviceID, err := l.device.ID(ctx)
	if err != nil {
		return err
	}

	check, err := l.backend.CheckDeviceID(ctx, phone, deviceID)
	if err != nil {
		l.logger.Errorw("device check failed", "phone", phone, "error", err)
		return err
	}
	if check.Status.String() == "blocked" {
		if check.Message == deviceConflictMessage {
			return ErrDeviceConflict
		}
		return errs.WithMessage(errs.Authentication, check.Message)
	}

	user, err := l.backend.Login(ctx, phone)
	if err != nil {
		l.logger.Errorw("registration check failed", "phone", phone, "error", err)
		return err
	}
	if !user.Registered() {
		return ErrNotRegistered
	}

	return l.send(ctx, phone)
}

// Resend sends a new code to the pending phone once the cooldown elapsed
func (l *Login) Resend(ctx context.Context) error {
	l.mu.Lock()
	phone, pending := l.phone, l.pending
	l.mu.Unlock()

	if pending == nil {
		return ErrNoVerification
	}
	if remaining := l.ResendIn(); remaining > 0 {
		return ErrResendTooSoon
	}
	return l.send(ctx, phone)
}

// ResendIn returns how long until Resend is allowed
func (l *Login) ResendIn() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return 0
	}
	return max(l.resendAfter-time.Since(l.pending.SentAt), 0)
}

func (l *Login) send(ctx context.Context, phone string) error {
	verification, err := l.provider.SendCode(ctx, countryCode+phone)
	if err != nil {
		l.logger.Errorw("unable to send otp", "phone", phone, "error", err)
		return err
	}

	l.mu.Lock()
	l.phone = phone
	l.pending = verification
	l.mu.Unlock()

	l.logger.Infow("otp sent", "phone", phone)
	return nil
}

// Pending returns the phone awaiting confirmation, if any
func (l *Login) Pending() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phone, l.pending != nil
}

// Confirm verifies code and creates the session when the backend confirms the
// same phone that was entered.
func (l *Login) Confirm(ctx context.Context, code string) (session.Session, error) {
	l.mu.Lock()
	phone, pending := l.phone, l.pending
	l.mu.Unlock()

	if pending == nil {
		return session.Session{}, ErrNoVerification
	}
	if len(code) != codeLength || strings.IndexFunc(code, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return session.Session{}, ErrInvalidCode
	}

	if _, err := l.provider.Confirm(ctx, pending, code); err != nil {
		l.logger.Warnw("otp confirmation failed", "phone", phone, "error", err)
		return session.Session{}, err
	}

	res, err := l.backend.Login(ctx, phone)
	if err != nil {
		return session.Session{}, err
	}
	if res.User == nil {
		l.reset()
		return session.Session{}, ErrUnexpectedUser
	}
	if res.User.Phone.String() != phone {
		l.logger.Warnw("confirmed phone does not match", "phone", phone, "confirmed", res.User.Phone)
		if err := l.provider.SignOut(ctx); err != nil {
			l.logger.Errorw("unable to sign out", "error", err)
		}
		l.reset()
		return session.Session{}, ErrPhoneMismatch
	}

	deviceID, err := l.device.ID(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if _, err := l.backend.UpdateDeviceID(ctx, phone, deviceID); err != nil {
		l.logger.Errorw("unable to register the device", "phone", phone, "error", err)
		return session.Session{}, err
	}

	s := session.Session{
		Phone:        phone,
		Name:         res.User.Name,
		Role:         res.User.Role,
		ProfileImage: res.User.ProfileImage,
		DeviceID:     deviceID,
		AppVersion:   l.appVersion,
	}
	if _, err := l.sessions.Create(ctx, s); err != nil {
		return session.Session{}, err
	}

	l.reset()
	return s, nil
}

// Cancel forgets the pending verification, as changing the phone does
func (l *Login) Cancel() {
	l.reset()
}

// ClearDevice logs the previous device of phone out after a device conflict
func (l *Login) ClearDevice(ctx context.Context, phoneInput string) error {
	phone := SanitizePhone(phoneInput)
	if len(phone) != phoneLength {
		return ErrInvalidPhone
	}

	res, err := l.backend.ClearDeviceID(ctx, phone)
	if err != nil {
		return err
	}
	if res.Status.String() == "error" {
		return errs.WithMessage(errs.Authentication, orDefault(res.Message, "Unable to log out the previous device."))
	}

	l.logger.Infow("previous device cleared", "phone", phone)
	return nil
}

// Register submits a non executive registration and returns the backend message
func (l *Login) Register(ctx context.Context, name, phone, email string) (string, error) {
	name, phone, email = strings.TrimSpace(name), strings.TrimSpace(phone), strings.TrimSpace(email)
	if name == "" || phone == "" || email == "" {
		return "", ErrFieldsRequired
	}

	res, err := l.backend.RegisterMember(ctx, name, phone, email)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", errs.WithMessage(errs.BadRequest, orDefault(res.Message, "Registration failed."))
	}
	return orDefault(res.Message, "Registered successfully!"), nil
}

func (l *Login) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.phone = ""
	l.pending = nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
