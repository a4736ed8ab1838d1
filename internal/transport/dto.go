package transport

import (
	"time"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Authorities []string `json:"authorities"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Authorities: u.Authorities}
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type ProductRequest struct {
	ProductID string `json:"productId"`
}

type CreateProductRequest struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Game        string          `json:"game"`
	Genre       string          `json:"genre"`
	Featured    bool            `json:"featured"`
	Rating      float64         `json:"rating"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Discount    float64         `json:"discount"`
}

func (r CreateProductRequest) Product() models.Product {
	return models.Product{
		Code:        r.Code,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Game:        r.Game,
		Genre:       r.Genre,
		Featured:    r.Featured,
		Rating:      r.Rating,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Discount:    r.Discount,
	}
}

type CheckoutItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type CheckoutResponse struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CartItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Deleted   bool   `json:"deleted"`
	Message   string `json:"message"`
}

type TransitionResponse struct {
	OrderID string `json:"orderId"`
	Updated int    `json:"updated"`
}
