// Package events publishes domain events for cart, order and product changes.
package events

import (
	"context"
	"time"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicProduct = "product_events"
)

const (
	CartItemAdded     = "cart_item_added"
	CartItemIncreased = "cart_item_increased"
	CartItemDecreased = "cart_item_decreased"
	CartItemRemoved   = "cart_item_removed"
	CartCleared       = "cart_cleared"

	OrderCreated   = "order_created"
	OrderCompleted = "order_completed"
	OrderReverted  = "order_reverted"

	ProductCreated = "product_created"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity"`
	At        time.Time `json:"at"`
}

type OrderEvent struct {
	Type    string    `json:"type"`
	OrderID string    `json:"order_id"`
	UserID  string    `json:"user_id,omitempty"`
	Lines   int       `json:"lines"`
	At      time.Time `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
