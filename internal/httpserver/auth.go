package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/Skotchmaster/gamestore/internal/transport"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        transport.NewUserResponse(res.User),
	})
}
