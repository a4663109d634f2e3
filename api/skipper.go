package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RouteSkipper(routes []string) middleware.Skipper {
	routesMap := map[string]struct{}{}
	for _, route := range routes {
		routesMap[route] = struct{}{}
	}

	return func(ec echo.Context) bool {
		_, ok := routesMap[ec.Path()]
		return ok
	}
}

// WithSkipper bypasses mw for the requests matched by skipper
func WithSkipper(skipper middleware.Skipper, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(ec echo.Context) error {
			if skipper(ec) {
				return next(ec)
			}
			return wrapped(ec)
		}
	}
}
