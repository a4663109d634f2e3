package app

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/giberode/gib/auth"
	"github.com/giberode/gib/navigation"
	"github.com/giberode/gib/notice"
	"github.com/giberode/gib/roles"
	"github.com/giberode/gib/screens"
	"github.com/giberode/gib/session"
	"github.com/giberode/gib/version"
)

const (
	UpdateRequiredTitle = "Update Required"
	UpdateRequiredText  = "A new version of GiB is available. Please update to continue."
)

// Status is what the shell currently shows
type Status struct {
	Ready    bool             `json:"ready" yaml:"ready"`
	Route    navigation.Route `json:"route" yaml:"route"`
	LoggedIn bool             `json:"loggedIn" yaml:"loggedIn"`
	Role     roles.Role       `json:"role,omitempty" yaml:"role,omitempty"`
	Tabs     []roles.Tab      `json:"tabs,omitempty" yaml:"tabs,omitempty"`
	Focused  string           `json:"focused,omitempty" yaml:"focused,omitempty"`
	Session  *session.Session `json:"session,omitempty" yaml:"session,omitempty"`
	Version  *version.Status  `json:"version,omitempty" yaml:"version,omitempty"`
}

type Params struct {
	fx.In

	Gate      *auth.Gate
	Login     *auth.Login
	Logout    *auth.Logout
	Sessions  *session.Manager
	Navigator *navigation.Navigator
	Host      *screens.Host
	Notices   *notice.Board
	Checker   *version.Checker
	Logger    *zap.SugaredLogger
}

// App drives the launch flow and keeps the mounted tabs in line with the session
type App struct {
	gate      *auth.Gate
	login     *auth.Login
	logout    *auth.Logout
	sessions  *session.Manager
	navigator *navigation.Navigator
	host      *screens.Host
	notices   *notice.Board
	checker   *version.Checker
	logger    *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	ready   bool
	version *version.Status
}

func NewApp(p Params) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		gate:      p.Gate,
		login:     p.Login,
		logout:    p.Logout,
		sessions:  p.Sessions,
		navigator: p.Navigator,
		host:      p.Host,
		notices:   p.Notices,
		checker:   p.Checker,
		logger:    p.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	p.Logout.OnLogout(func(ctx context.Context) {
		a.host.UnmountAll()
	})
	return a
}

// Launch resolves the gate and routes to the tabs or to the login screen
func (a *App) Launch(ctx context.Context) auth.GateResult {
	go a.checkVersion(a.ctx)

	result := a.gate.Launch(ctx)
	if result.LoggedIn {
		a.enter(result.Session)
	} else if err := a.navigator.Navigate(navigation.Login); err != nil {
		a.logger.Errorw("unable to show the login screen", "error", err)
	}

	a.mu.Lock()
	a.ready = true
	a.mu.Unlock()

	a.logger.Infow("app launched", "loggedIn", result.LoggedIn, "versionReset", result.VersionReset)
	return result
}

// SignIn confirms the pending code and mounts the tabs of the member
func (a *App) SignIn(ctx context.Context, code string) (session.Session, error) {
	s, err := a.login.Confirm(ctx, code)
	if err != nil {
		return s, err
	}
	a.enter(s)
	return s, nil
}

// SignOut goes through the logout screen back to login
func (a *App) SignOut(ctx context.Context) error {
	if err := a.navigator.Navigate(navigation.LogoutScreen); err != nil {
		a.logger.Warnw("logout requested outside of the main app", "route", a.navigator.Current())
	}
	return a.logout.Run(ctx)
}

func (a *App) enter(s session.Session) {
	if err := a.navigator.Navigate(navigation.MainApp); err != nil {
		a.logger.Errorw("unable to show the main app", "error", err)
		return
	}

	role, err := roles.Parse(s.Role)
	if err != nil {
		a.logger.Errorw("session has an unknown role", "role", s.Role)
		a.notices.Post(notice.Error, "Error", err.Error())
		a.host.UnmountAll()
		return
	}
	if err := a.host.Mount(a.ctx, role); err != nil {
		a.logger.Errorw("unable to mount tabs", "role", role, "error", err)
	}
}

func (a *App) checkVersion(ctx context.Context) {
	status, err := a.checker.Check(ctx)
	if err != nil {
		a.logger.Warnw("unable to check the app version", "error", err)
		return
	}

	a.mu.Lock()
	a.version = &status
	a.mu.Unlock()

	if status.UpdateRequired {
		a.notices.Post(notice.Error, UpdateRequiredTitle, UpdateRequiredText)
	}
}

func (a *App) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

func (a *App) Host() *screens.Host {
	return a.host
}

func (a *App) Login() *auth.Login {
	return a.login
}

func (a *App) Notices() *notice.Board {
	return a.notices
}

func (a *App) Status(ctx context.Context) (Status, error) {
	a.mu.Lock()
	status := Status{
		Ready:   a.ready,
		Version: a.version,
	}
	a.mu.Unlock()

	status.Route = a.navigator.Current()
	status.Role = a.host.Role()
	status.Tabs = a.host.Tabs()
	status.Focused = a.host.Focused()

	s, err := a.sessions.Load(ctx)
	if err != nil {
		return status, err
	}
	if s.Active() {
		status.LoggedIn = true
		status.Session = &s
	}
	return status, nil
}

// Shutdown stops every screen. The app can't be launched again afterwards.
func (a *App) Shutdown() {
	a.host.UnmountAll()
	a.cancel()
}

// RegisterApp launches the app in the background once fx started
func RegisterApp(lifecycle fx.Lifecycle, app *App) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Launch(app.ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			app.Shutdown()
			return nil
		},
	})
}
