package echoServer

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
)

const (
	msgInternal      = "Internal server error"
	msgRouteNotFound = "Route not found"
)

// ErrorHandler renders every handler error as the response envelope. Only
// coded errors and echo HTTP errors reach the client with their message;
// anything else is logged and reported as a bare 500.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
			write(c, http.StatusNotFound, echo.Map{"success": false, "message": msgRouteNotFound})
			return
		}

		status, msg := http.StatusInternalServerError, msgInternal
		var he *echo.HTTPError
		switch {
		case apperr.Code(err) != "":
			status, msg = apperr.Status(apperr.Code(err)), apperr.Message(err)
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
				msg = m
			} else if status < http.StatusInternalServerError {
				msg = http.StatusText(status)
			} else {
				msg = msgInternal
			}
		}

		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
		} else {
			log.Debug("request rejected", "status", status, "err", err, "req_id", rid)
		}

		write(c, status, model.NewResponse(status, nil, msg))
	}
}

func write(c echo.Context, status int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
