// Package tokens issues and validates the stateless HS256 session tokens
// carried in the Authorization header.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySubject = errors.New("token subject is empty")

// Principal is what a token is issued for.
type Principal struct {
	Email string
	Roles []string
}

type AccessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity is the verified content of a token.
type Identity struct {
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for both issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret []byte, ttl time.Duration, opts ...Option) *Service {
	s := &Service{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) Issue(p Principal) (string, time.Time, error) {
	if p.Email == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	now := s.now()
	exp := now.Add(s.ttl)

	roles := make([]string, len(p.Roles))
	copy(roles, p.Roles)

	claims := AccessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate never fails loudly: a bad signature, a parse error or an expired
// token all come back as ok == false.
func (s *Service) Validate(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	claims, err := AccessClaimsFromToken(token, s.secret, jwt.WithTimeFunc(s.now))
	if err != nil || claims.Subject == "" || claims.ExpiresAt == nil {
		return Identity{}, false
	}
	return Identity{
		Email:     claims.Subject,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// ValidateFor additionally requires the token subject to be email.
func (s *Service) ValidateFor(token, email string) bool {
	id, ok := s.Validate(token)
	return ok && id.Email == email
}

func AccessClaimsFromToken(tokenStr string, secret []byte, opts ...jwt.ParserOption) (*AccessClaims, error) {
	opts = append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}, opts...)

	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
