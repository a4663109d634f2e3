package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/giberode/gib/app"
)

type HealthCheck struct {
	app *app.App
}

func NewHealthCheck(app *app.App) *HealthCheck {
	return &HealthCheck{app: app}
}

// Readiness probe. The daemon is ready once the launch gate resolved.
func (h *HealthCheck) Ready(c echo.Context) error {
	if !h.app.Ready() {
		return c.NoContent(http.StatusBadRequest)
	}

	return c.NoContent(http.StatusOK)
}
