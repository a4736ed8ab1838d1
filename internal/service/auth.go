package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
	pkg_hash "github.com/Skotchmaster/gamestore/pkg/hash"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/Skotchmaster/gamestore/pkg/tokens"
)

type AuthService struct {
	Users  UserRepo
	Tokens *tokens.Service
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular customer account.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, name, models.RoleUser)
}

// CreateUser creates an account with the given authorities. The password is
// stored only as a bcrypt hash.
func (s *AuthService) CreateUser(ctx context.Context, email, password, name string, roles ...string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email required: %w", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("password required: %w", ErrValidation)
	}
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		Name:         strings.TrimSpace(name),
		Authorities:  roles,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
	}

	token, exp, err := s.Tokens.Issue(tokens.Principal{Email: user.Email, Roles: user.Authorities})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}
