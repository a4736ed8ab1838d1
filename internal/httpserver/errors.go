package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/labstack/echo/v4"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err under "<op>_error" and turns it into the HTTP error the
// client sees. Internal details are only shown for client errors.
func fail(l *slog.Logger, op string, err error) error {
	status := statusOf(err)
	switch status {
	case http.StatusInternalServerError:
		l.Error(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, "internal error")
	case http.StatusBadGateway:
		l.Error(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, "payment provider unavailable")
	case http.StatusUnauthorized:
		l.Warn(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, "invalid authentication")
	default:
		l.Warn(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, err.Error())
	}
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}
