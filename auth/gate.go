package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/giberode/gib/config"
	"github.com/giberode/gib/session"
)

// GateResult is the launch decision
type GateResult struct {
	LoggedIn     bool            `json:"loggedIn" yaml:"loggedIn"`
	Session      session.Session `json:"session" yaml:"session"`
	VersionReset bool            `json:"versionReset,omitempty" yaml:"versionReset,omitempty"`
}

// Gate decides at launch whether the member is logged in
type Gate struct {
	sessions   *session.Manager
	appVersion string
	splash     time.Duration
	logger     *zap.SugaredLogger
}

func NewGate(cfg *config.Config, sessions *session.Manager, logger *zap.SugaredLogger) *Gate {
	return &Gate{
		sessions:   sessions,
		appVersion: cfg.AppVersion,
		splash:     cfg.SplashDuration,
		logger:     logger,
	}
}

// Check never fails. A stored version that differs from the running one wipes
// the whole store, and any error reads as logged out.
func (g *Gate) Check(ctx context.Context) GateResult {
	s, err := g.sessions.Load(ctx)
	if err != nil {
		g.logger.Errorw("unable to read the session store", "error", err)
		return GateResult{}
	}

	if s.AppVersion != g.appVersion {
		g.logger.Infow("app version changed, clearing local data", "stored", s.AppVersion, "current", g.appVersion)
		if err := g.sessions.Clear(ctx); err != nil {
			g.logger.Errorw("unable to clear the session store", "error", err)
		}
		return GateResult{VersionReset: true}
	}

	if !s.Active() {
		return GateResult{}
	}
	return GateResult{LoggedIn: true, Session: s}
}

// Launch runs the check while the splash is shown and returns no earlier than the
// splash duration.
func (g *Gate) Launch(ctx context.Context) GateResult {
	splash := time.NewTimer(g.splash)
	defer splash.Stop()

	result := make(chan GateResult, 1)
	go func() {
		result <- g.Check(ctx)
	}()

	var decision GateResult
	select {
	case decision = <-result:
	case <-ctx.Done():
		return GateResult{}
	}

	select {
	case <-splash.C:
	case <-ctx.Done():
		return GateResult{}
	}
	return decision
}
