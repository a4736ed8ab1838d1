// Package payment creates hosted checkout sessions with the payment provider.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}

type Session struct {
	ID  string
	URL string
}

type Gateway interface {
	CreateSession(ctx context.Context, lines []Line, successURL, cancelURL string) (*Session, error)
}

// minorUnits converts a price to cents, rounding half away from zero.
func minorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

var ErrNotConfigured = errors.New("payment provider is not configured")

// Disabled is used when no provider key is set. Every checkout fails.
type Disabled struct{}

func (Disabled) CreateSession(context.Context, []Line, string, string) (*Session, error) {
	return nil, ErrNotConfigured
}
