package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Stripe struct {
	sc       *client.API
	currency string
}

func NewStripe(secretKey, currency string) *Stripe {
	return newStripe(secretKey, currency, nil)
}

func newStripe(secretKey, currency string, backends *stripe.Backends) *Stripe {
	return &Stripe{
		sc:       client.New(secretKey, backends),
		currency: currency,
	}
}

func (s *Stripe) CreateSession(ctx context.Context, lines []Line, successURL, cancelURL string) (*Session, error) {
	if len(lines) == 0 {
		return nil, errors.New("no line items")
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, l := range lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(s.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(l.Name),
				},
				UnitAmount: stripe.Int64(minorUnits(l.UnitPrice)),
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems:  items,
	}
	params.Context = ctx

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}
