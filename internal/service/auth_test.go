package service

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	env := newTestEnv(t)
	return &AuthService{
		Users:  env.Store,
		Tokens: tokens.NewService([]byte("test-jwt-secret"), time.Hour),
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, " Ann@Example.com ", "secret", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, []string{models.RoleUser}, u.Authorities)
	assert.NotEqual(t, "secret", u.PasswordHash)

	res, err := svc.Login(ctx, "ann@example.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	id, ok := svc.Tokens.Validate(res.AccessToken)
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.Equal(t, []string{models.RoleUser}, id.Roles)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)
}

func TestAuthService_Errors(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "no at sign", email: "ann", password: "secret"},
		{name: "empty password", email: "ann@example.com", password: ""},
	}
	for _, tc := range tests {
		_, err := svc.Register(ctx, tc.email, tc.password, "")
		require.ErrorIs(t, err, ErrValidation, tc.name)
	}

	_, err := svc.Register(ctx, "ann@example.com", "secret", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "ANN@example.com", "other", "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Login(ctx, "ann@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Login(ctx, "bob@example.com", "secret")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(t)

	u, err := svc.CreateUser(context.Background(), "root@example.com", "pw", "Root", models.RoleUser, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.HasRole(models.RoleAdmin))
}
