package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusCompleted
}

type User struct {
	ID           string   `gorm:"primaryKey;size:36"            json:"id"`
	Email        string   `gorm:"uniqueIndex;not null"          json:"email"`
	PasswordHash string   `gorm:"not null"                      json:"password_hash"`
	Name         string   `json:"name"`
	Authorities  []string `gorm:"serializer:json;type:text"     json:"authorities"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Authorities, role)
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36"        json:"id"`
	Code        string          `gorm:"index"                     json:"code"`
	Type        string          `json:"type"`
	Title       string          `gorm:"not null"                  json:"title"`
	Description string          `json:"description"`
	Game        string          `json:"game"`
	Genre       string          `json:"genre"`
	Featured    bool            `gorm:"index"                     json:"featured"`
	Rating      float64         `json:"rating"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"        json:"price"`
	Quantity    int             `json:"quantity"`
	Discount    float64         `json:"discount"`
	SoldAmount  int             `json:"soldAmount"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Category is the upper-cased three letter prefix of the product code.
func (p Product) Category() string {
	if len(p.Code) < 3 {
		return strings.ToUpper(p.Code)
	}
	return strings.ToUpper(p.Code[:3])
}

type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36"                             json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_product;size:36;not null" json:"userId"`
	ProductID string    `gorm:"uniqueIndex:idx_user_product;size:36;not null" json:"productId"`
	Quantity  int       `gorm:"default:1;check:quantity>0"                     json:"quantity"`
	CreatedAt time.Time `gorm:"index"                                         json:"createdAt"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with its product.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

type OrderLine struct {
	ID        string          `gorm:"primaryKey;size:36"          json:"id"`
	UserID    string          `gorm:"index;size:36;not null"      json:"userId"`
	ProductID string          `gorm:"size:36;not null"            json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2)"          json:"price"`
	Quantity  int             `gorm:"check:quantity>0"            json:"quantity"`
	OrderID   string          `gorm:"index;size:36;not null"      json:"orderId"`
	Date      time.Time       `json:"date"`
	Status    OrderStatus     `gorm:"index;size:16;not null"      json:"status"`
}

func (o *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// AuthenticatedUser is the caller identity resolved from a bearer token.
// It is built once per request and never modified afterwards.
type AuthenticatedUser struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func (u AuthenticatedUser) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u AuthenticatedUser) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
