package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/giberode/gib/navigation"
	"github.com/giberode/gib/otp"
	"github.com/giberode/gib/session"
)

type Navigator interface {
	Reset(route navigation.Route) error
}

// Logout signs the member out locally. Registered hooks run after the store is cleared.
type Logout struct {
	provider  otp.Provider
	sessions  *session.Manager
	navigator Navigator
	logger    *zap.SugaredLogger

	mu    sync.Mutex
	hooks []func(ctx context.Context)
}

func NewLogout(provider otp.Provider, sessions *session.Manager, navigator *navigation.Navigator, logger *zap.SugaredLogger) *Logout {
	return &Logout{
		provider:  provider,
		sessions:  sessions,
		navigator: navigator,
		logger:    logger,
	}
}

func (l *Logout) OnLogout(hook func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Run logs out whatever session is stored
func (l *Logout) Run(ctx context.Context) error {
	l.signOut(ctx)
	if err := l.sessions.Clear(ctx); err != nil {
		return err
	}
	l.finish(ctx)
	return nil
}

// Force logs out the session of epoch and reports whether it did. It is a no-op
// if that session already ended.
func (l *Logout) Force(ctx context.Context, epoch session.Epoch) (bool, error) {
	if err := l.sessions.ClearEpoch(ctx, epoch); err != nil {
		if errors.Is(err, session.ErrStaleEpoch) {
			l.logger.Infow("session already replaced, skipping forced logout", "epoch", epoch)
			return false, nil
		}
		return false, err
	}
	l.signOut(ctx)
	l.finish(ctx)
	return true, nil
}

func (l *Logout) signOut(ctx context.Context) {
	if err := l.provider.SignOut(ctx); err != nil {
		l.logger.Errorw("unable to sign out of the otp provider", "error", err)
	}
}

func (l *Logout) finish(ctx context.Context) {
	if err := l.navigator.Reset(navigation.Login); err != nil {
		l.logger.Errorw("unable to reset navigation", "error", err)
	}

	l.mu.Lock()
	hooks := l.hooks
	l.mu.Unlock()
	for _, hook := range hooks {
		hook(ctx)
	}
}
