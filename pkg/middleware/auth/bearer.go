// Package middleware authenticates requests from the Authorization header
// and enforces role requirements.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/Skotchmaster/gamestore/pkg/tokens"
	"github.com/labstack/echo/v4"
)

const userContextKey = "auth_user"

type ctxKey struct{}

type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type BearerMiddleware struct {
	Tokens *tokens.Service
	Users  UserResolver
}

func NewBearerMiddleware(t *tokens.Service, users UserResolver) *BearerMiddleware {
	return &BearerMiddleware{Tokens: t, Users: users}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects the request with 401 unless it carries a valid token of
// an existing user. On success the resolved user is available through
// CurrentUser and UserFromContext.
func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		id, ok := m.Tokens.Validate(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		user, err := m.Users.GetUserByEmail(ctx, id.Email)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("auth_error", "status", 401, "reason", "unknown subject", "email", id.Email)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication")
			}
			l.Error("auth_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		au := models.AuthenticatedUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Roles: slices.Clone(user.Authorities),
		}
		c.Set(userContextKey, au)
		c.SetRequest(c.Request().WithContext(IntoContext(ctx, au)))
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication")
			}
			if !u.HasRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}

func (m *BearerMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(RequireRole(models.RoleAdmin)(next))
}

func CurrentUser(c echo.Context) (models.AuthenticatedUser, bool) {
	u, ok := c.Get(userContextKey).(models.AuthenticatedUser)
	return u, ok
}

func IntoContext(ctx context.Context, u models.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) (models.AuthenticatedUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.AuthenticatedUser)
	return u, ok
}
