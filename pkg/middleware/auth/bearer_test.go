package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/pkg/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if email == "broken@example.com" {
		return nil, errors.New("disk on fire")
	}
	u, ok := s[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, repo.ErrNotFound)
	}
	return u, nil
}

func setup(t *testing.T) (*echo.Echo, *tokens.Service) {
	t.Helper()
	ts := tokens.NewService([]byte("secret"), time.Hour)
	users := stubUsers{
		"ann@example.com":  {ID: "u1", Email: "ann@example.com", Name: "Ann", Authorities: []string{models.RoleUser}},
		"root@example.com": {ID: "u2", Email: "root@example.com", Authorities: []string{models.RoleUser, models.RoleAdmin}},
	}
	mw := NewBearerMiddleware(ts, users)

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		fromCtx, ok := UserFromContext(c.Request().Context())
		if !ok || fromCtx.ID != u.ID {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, u)
	}, mw.RequireAuth)
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw.RequireAdmin)
	return e, ts
}

func issue(t *testing.T, ts *tokens.Service, email string) string {
	t.Helper()
	tok, _, err := ts.Issue(tokens.Principal{Email: email})
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	e, ts := setup(t)
	other := tokens.NewService([]byte("other"), time.Hour)

	tests := []struct {
		name  string
		authz string
		want  int
	}{
		{"valid", "Bearer " + issue(t, ts, "ann@example.com"), http.StatusOK},
		{"lower case scheme", "bearer " + issue(t, ts, "ann@example.com"), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + issue(t, other, "ann@example.com"), http.StatusUnauthorized},
		{"unknown user", "Bearer " + issue(t, ts, "ghost@example.com"), http.StatusUnauthorized},
		{"storage failure", "Bearer " + issue(t, ts, "broken@example.com"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, "/me", tc.authz)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec := do(e, "/me", "Bearer "+issue(t, ts, "ann@example.com"))
	assert.Contains(t, rec.Body.String(), `"id":"u1"`)
	assert.Contains(t, rec.Body.String(), `"roles":["ROLE_USER"]`)
}

func TestRequireAdmin(t *testing.T) {
	e, ts := setup(t)

	assert.Equal(t, http.StatusUnauthorized, do(e, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, "/admin", "Bearer "+issue(t, ts, "ann@example.com")).Code)
	assert.Equal(t, http.StatusOK, do(e, "/admin", "Bearer "+issue(t, ts, "root@example.com")).Code)
}
