package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func CustomHTTPErrorHandler(err error, c echo.Context) {
	e := HttpError{}
	if errors.As(err, &e) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(e.Code, err.Error()), c)
		return
	}
	if errors.Is(err, Authentication) || errors.Is(err, ForcedLogout) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusUnauthorized, Message(err)), c)
		return
	}
	if errors.Is(err, Network) || errors.Is(err, Parse) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusBadGateway, Message(err)), c)
		return
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
