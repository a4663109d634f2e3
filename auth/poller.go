package auth

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/giberode/gib/config"
	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/notice"
	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/session"
)

const UnauthorizedAccessNotice = "Logged out due to Unauthorized Access"

type DeviceCheck struct {
	Checked bool `json:"checked" yaml:"checked"`
	Revoked bool `json:"revoked" yaml:"revoked"`
}

// SessionPoller asks the backend whether the stored phone is still logged in on
// this device and forces a logout once the backend revoked it.
type SessionPoller struct {
	backend  Backend
	sessions *session.Manager
	logout   *Logout
	notices  *notice.Board
	logger   *zap.SugaredLogger

	resource *poll.Resource[DeviceCheck]
}

func NewSessionPoller(cfg *config.Config, backend Backend, sessions *session.Manager, logout *Logout, notices *notice.Board, logger *zap.SugaredLogger) *SessionPoller {
	p := &SessionPoller{
		backend:  backend,
		sessions: sessions,
		logout:   logout,
		notices:  notices,
		logger:   logger,
	}
	p.resource = poll.New("device", cfg.DeviceCheckInterval, p.Check, logger)
	return p
}

// Check runs one liveness check
func (p *SessionPoller) Check(ctx context.Context) (DeviceCheck, error) {
	s, epoch, err := p.sessions.Snapshot(ctx)
	if err != nil {
		return DeviceCheck{}, err
	}
	if s.Phone == "" {
		return DeviceCheck{}, nil
	}

	status, err := p.backend.LogoutDevice(ctx, s.Phone)
	if err != nil {
		return DeviceCheck{}, err
	}
	if !status.Revoked {
		return DeviceCheck{Checked: true}, nil
	}

	p.logger.Warnw("device revoked by the backend", "phone", s.Phone)
	done, err := p.logout.Force(ctx, epoch)
	if err != nil {
		return DeviceCheck{Checked: true, Revoked: true}, fmt.Errorf("%w: %w", errs.ForcedLogout, err)
	}
	if done {
		p.notices.Post(notice.Error, "", UnauthorizedAccessNotice)
	}
	return DeviceCheck{Checked: true, Revoked: done}, nil
}

func (p *SessionPoller) Start(ctx context.Context) {
	p.resource.Start(ctx)
}

func (p *SessionPoller) Stop() {
	p.resource.Stop()
}

func (p *SessionPoller) Snapshot() poll.Snapshot {
	return p.resource.Snapshot()
}

// RegisterSessionPoller runs the poller for the lifetime of the fx app
func RegisterSessionPoller(lifecycle fx.Lifecycle, poller *SessionPoller) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			poller.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			return nil
		},
	})
}
