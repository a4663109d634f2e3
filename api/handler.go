package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/giberode/gib/app"
	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/screens"
	"github.com/giberode/gib/session"
)

type Handler struct {
	app      *app.App
	sessions *session.Manager
	logger   *zap.SugaredLogger
}

type Params struct {
	fx.In

	App      *app.App
	Sessions *session.Manager
	Logger   *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		app:      p.App,
		sessions: p.Sessions,
		logger:   p.Logger,
	}
}

type ScreenView struct {
	Name      string          `json:"name"`
	Focused   bool            `json:"focused"`
	Resources []poll.Snapshot `json:"resources"`
}

type SendCodeRequest struct {
	Phone string `json:"phone"`
}

type SendCodeResponse struct {
	Phone    string `json:"phone"`
	ResendIn int    `json:"resendInSeconds"`
}

type ConfirmRequest struct {
	Code string `json:"code"`
}

// (GET /v1/session)
func (h *Handler) GetSession(ec echo.Context) error {
	status, err := h.app.Status(ec.Request().Context())
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, status)
}

// (GET /v1/screens/{name})
func (h *Handler) GetScreen(ec echo.Context) error {
	name := ec.Param("name")
	host := h.app.Host()

	screen, ok := host.Screen(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, screens.ErrNotMounted.Error())
	}
	return ec.JSON(http.StatusOK, ScreenView{
		Name:      screen.Name,
		Focused:   host.Focused() == screen.Name,
		Resources: screen.Snapshots(),
	})
}

// (POST /v1/screens/{name}/focus)
func (h *Handler) FocusScreen(ec echo.Context) error {
	if err := h.app.Host().Focus(ec.Param("name")); err != nil {
		if errors.Is(err, screens.ErrNotMounted) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return h.GetScreen(ec)
}

// (GET /v1/notices)
func (h *Handler) GetNotices(ec echo.Context) error {
	return ec.JSON(http.StatusOK, h.app.Notices().Drain())
}

// (POST /v1/login/code)
func (h *Handler) SendCode(ec echo.Context) error {
	req := SendCodeRequest{}
	if err := ec.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	login := h.app.Login()
	if err := login.SendCode(ec.Request().Context(), req.Phone); err != nil {
		return err
	}
	phone, _ := login.Pending()
	return ec.JSON(http.StatusAccepted, SendCodeResponse{
		Phone:    phone,
		ResendIn: int(login.ResendIn().Seconds()),
	})
}

// (POST /v1/login/resend)
func (h *Handler) ResendCode(ec echo.Context) error {
	login := h.app.Login()
	if err := login.Resend(ec.Request().Context()); err != nil {
		return err
	}
	phone, _ := login.Pending()
	return ec.JSON(http.StatusAccepted, SendCodeResponse{
		Phone:    phone,
		ResendIn: int(login.ResendIn().Seconds()),
	})
}

// (POST /v1/login/confirm)
func (h *Handler) ConfirmCode(ec echo.Context) error {
	req := ConfirmRequest{}
	if err := ec.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.app.SignIn(ec.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, s)
}

// (POST /v1/logout)
func (h *Handler) Logout(ec echo.Context) error {
	if err := h.app.SignOut(ec.Request().Context()); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	e.GET("/v1/session", h.GetSession)
	e.GET("/v1/screens/:name", h.GetScreen)
	e.POST("/v1/screens/:name/focus", h.FocusScreen)
	e.GET("/v1/notices", h.GetNotices)
	e.POST("/v1/login/code", h.SendCode)
	e.POST("/v1/login/resend", h.ResendCode)
	e.POST("/v1/login/confirm", h.ConfirmCode)
	e.POST("/v1/logout", h.Logout)
}
