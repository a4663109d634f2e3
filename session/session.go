package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fatih/structs"
	"go.uber.org/zap"

	"github.com/giberode/gib/store"
)

// Keys of the persisted session. The set is fixed and shared with the mobile app.
const (
	KeyPhone        = "phone"
	KeyName         = "name"
	KeyRole         = "role"
	KeyProfileImage = "profile_image"
	KeyDeviceID     = "device_id"
	KeyAppVersion   = "APP_VERSION"
)

var Keys = []string{KeyPhone, KeyName, KeyRole, KeyProfileImage, KeyDeviceID, KeyAppVersion}

var (
	ErrNoSession  = errors.New("no active session")
	ErrStaleEpoch = errors.New("session changed since the operation started")
	ErrEmptyPhone = errors.New("session phone is required")
)

type Session struct {
	Phone        string `structs:"phone" json:"phone" yaml:"phone"`
	Name         string `structs:"name" json:"name" yaml:"name"`
	Role         string `structs:"role" json:"role" yaml:"role"`
	ProfileImage string `structs:"profile_image" json:"profileImage" yaml:"profileImage"`
	DeviceID     string `structs:"device_id" json:"deviceId" yaml:"deviceId"`
	AppVersion   string `structs:"APP_VERSION" json:"appVersion" yaml:"appVersion"`
}

// Active reports whether the session identifies a logged in member
func (s Session) Active() bool {
	return s.Phone != ""
}

// Epoch identifies one session lifetime. It increases every time a session is
// created or cleared, and writes carrying an older epoch are rejected.
type Epoch uint64

// Manager is the session context shared by every service. All writes go through it.
type Manager struct {
	kv     store.KeyValue
	logger *zap.SugaredLogger

	mu    sync.Mutex
	epoch Epoch
}

func NewManager(db store.Database, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		kv:     db.Namespace(store.SessionNamespace),
		logger: logger,
	}
}

func (m *Manager) Epoch() Epoch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

func (m *Manager) Load(ctx context.Context) (Session, error) {
	values, err := m.kv.MultiGet(ctx, Keys...)
	if err != nil {
		return Session{}, fmt.Errorf("unable to load session: %w", err)
	}

	return Session{
		Phone:        values[KeyPhone],
		Name:         values[KeyName],
		Role:         values[KeyRole],
		ProfileImage: values[KeyProfileImage],
		DeviceID:     values[KeyDeviceID],
		AppVersion:   values[KeyAppVersion],
	}, nil
}

// Current returns the active session or ErrNoSession
func (m *Manager) Current(ctx context.Context) (Session, error) {
	s, err := m.Load(ctx)
	if err != nil {
		return s, err
	}
	if !s.Active() {
		return s, ErrNoSession
	}
	return s, nil
}

func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	value, _, err := m.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", key, err)
	}
	return value, nil
}

func (m *Manager) Phone(ctx context.Context) (string, error) {
	return m.Get(ctx, KeyPhone)
}

// Create replaces whatever is stored with s and starts a new epoch
func (m *Manager) Create(ctx context.Context, s Session) (Epoch, error) {
	if s.Phone == "" {
		return 0, ErrEmptyPhone
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.kv.Clear(ctx); err != nil {
		return m.epoch, fmt.Errorf("unable to reset session: %w", err)
	}
	m.epoch++
	if err := m.kv.MultiSet(ctx, toValues(s)); err != nil {
		return m.epoch, fmt.Errorf("unable to save session: %w", err)
	}

	m.logger.Infow("session created", "phone", s.Phone, "role", s.Role, "epoch", m.epoch)
	return m.epoch, nil
}

// Update writes values only if the session has not been created or cleared since epoch
func (m *Manager) Update(ctx context.Context, epoch Epoch, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		m.logger.Warnw("dropping stale session write", "epoch", epoch, "current", m.epoch)
		return ErrStaleEpoch
	}
	if phone, ok := values[KeyPhone]; ok && phone == "" {
		return ErrEmptyPhone
	}
	if err := m.kv.MultiSet(ctx, values); err != nil {
		return fmt.Errorf("unable to update session: %w", err)
	}
	return nil
}

// Clear removes every session key. Writes started before the clear are rejected afterwards.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	if err := m.kv.Clear(ctx); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	m.logger.Infow("session cleared", "epoch", m.epoch)
	return nil
}

// ClearEpoch clears the session only if it is still the one identified by epoch
func (m *Manager) ClearEpoch(ctx context.Context, epoch Epoch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		return ErrStaleEpoch
	}
	m.epoch++
	if err := m.kv.Clear(ctx); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	m.logger.Infow("session cleared", "epoch", m.epoch)
	return nil
}

// Snapshot returns the stored session together with the epoch it belongs to
func (m *Manager) Snapshot(ctx context.Context) (Session, Epoch, error) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	s, err := m.Load(ctx)
	if err != nil {
		return s, epoch, err
	}
	if m.Epoch() != epoch {
		return Session{}, epoch, ErrStaleEpoch
	}
	return s, epoch, nil
}

func toValues(s Session) map[string]string {
	values := make(map[string]string, len(Keys))
	for key, value := range structs.Map(s) {
		values[key] = fmt.Sprint(value)
	}
	return values
}
