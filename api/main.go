package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/giberode/gib/app"
	"github.com/giberode/gib/attendance"
	"github.com/giberode/gib/auth"
	"github.com/giberode/gib/blog"
	"github.com/giberode/gib/config"
	"github.com/giberode/gib/device"
	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/events"
	"github.com/giberode/gib/logger"
	"github.com/giberode/gib/members"
	"github.com/giberode/gib/navigation"
	"github.com/giberode/gib/notice"
	"github.com/giberode/gib/otp"
	"github.com/giberode/gib/profiles"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/screens"
	"github.com/giberode/gib/session"
	"github.com/giberode/gib/store"
	"github.com/giberode/gib/thanksnotes"
	"github.com/giberode/gib/version"
)

func Start(e *echo.Echo, cfg *config.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.DaemonAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorw("daemon server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func NewServer(handler *Handler, healthCheck *HealthCheck, sessions *session.Manager, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// Skip logging for the readiness probe
	loggerSkipper := RouteSkipper([]string{"/ready"})
	// Routes available before login
	sessionSkipper := RouteSkipper([]string{
		"/ready",
		"/v1/session",
		"/v1/notices",
		"/v1/login/code",
		"/v1/login/resend",
		"/v1/login/confirm",
	})

	e.Use(middleware.Recover())
	e.Use(WithSkipper(loggerSkipper, echozap.ZapLogger(logger)))
	e.Use(NewSessionMiddleware(sessions, SessionMiddlewareOpts{
		Skipper: sessionSkipper,
	}))

	e.HTTPErrorHandler = errs.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

func newNoticeBoard(cfg *config.Config, logger *zap.SugaredLogger) *notice.Board {
	return notice.NewBoard(cfg.NoticeCapacity, logger)
}

func newVersionChecker(cfg *config.Config, client *remote.Client, logger *zap.SugaredLogger) *version.Checker {
	return version.NewChecker(client, cfg.AppVersion, cfg.PlayStoreURL, logger)
}

// Dependencies returns the providers of the whole dependency graph except the
// daemon server
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			config.NewConfig,
			store.NewConfig,
			store.NewDatabase,
			remote.NewConfig,
			remote.NewClient,
			otp.NewConfig,
			otp.NewProvider,
			device.NewConfig,
			device.NewIdentity,
			session.NewManager,
			navigation.NewNavigator,
			newNoticeBoard,
			newVersionChecker,
			func(c *remote.Client) auth.Backend { return c },
			func(c *remote.Client) members.Backend { return c },
			func(c *remote.Client) thanksnotes.Backend { return c },
			func(c *remote.Client) attendance.Backend { return c },
			func(c *remote.Client) events.Backend { return c },
			func(c *remote.Client) blog.Backend { return c },
			func(c *remote.Client) profiles.Backend { return c },
			func(i *device.Identity) auth.DeviceIdentity { return i },
			func(s *members.Service) thanksnotes.Recipients { return s },
			auth.NewGate,
			auth.NewLogin,
			auth.NewLogout,
			auth.NewSessionPoller,
			members.NewService,
			thanksnotes.NewService,
			attendance.NewService,
			events.NewService,
			blog.NewService,
			profiles.NewService,
			screens.NewCatalog,
			func(c *screens.Catalog) screens.Builder { return c },
			screens.NewHost,
			app.NewApp,
		),
	}
}

func MainLoop() {
	deps := append(Dependencies(),
		fx.Provide(
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
		fx.Invoke(auth.RegisterSessionPoller),
		fx.Invoke(app.RegisterApp),
		fx.Invoke(Start),
	)
	fx.New(deps...).Run()
}
