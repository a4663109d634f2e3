package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/session"
)

var ErrLoginRequired = errs.WithMessage(errs.Authentication, "Login required")

type SessionMiddlewareOpts struct {
	Skipper middleware.Skipper
}

// NewSessionMiddleware rejects requests while nobody is logged in
func NewSessionMiddleware(sessions *session.Manager, opts SessionMiddlewareOpts) echo.MiddlewareFunc {
	if opts.Skipper == nil {
		opts.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			if opts.Skipper(ec) {
				return next(ec)
			}

			s, err := sessions.Load(ec.Request().Context())
			if err != nil {
				return err
			}
			if !s.Active() {
				return ErrLoginRequired
			}
			return next(ec)
		}
	}
}
