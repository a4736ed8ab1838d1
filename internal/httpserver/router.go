package httpserver

import (
	"context"
	"net/http"

	middleware "github.com/Skotchmaster/gamestore/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	AuthMW         *middleware.BearerMiddleware

	// Ready reports whether the backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW, adminMW := d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin

	api := e.Group("/api")
	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.GET("/featured-products", d.CatalogHandler.Featured)
	api.GET("/discounted-products", d.CatalogHandler.Discounted)
	api.GET("/category-products/:category", d.CatalogHandler.ByCategory)
	api.GET("/search-products/:keyword", d.CatalogHandler.Search)
	api.POST("/add-product", d.CatalogHandler.CreateProduct, adminMW)

	cart := e.Group("/cart")
	cart.POST("/add-to-cart", d.CartHandler.AddToCart, authMW)
	cart.POST("/get-user-cart", d.CartHandler.GetCart, authMW)
	cart.GET("/get-user-cart", d.CartHandler.GetCart, authMW)
	cart.POST("/user-cart-increase-product", d.CartHandler.Increase, authMW)
	cart.POST("/user-cart-decrease-product", d.CartHandler.Decrease, authMW)
	cart.POST("/user-cart-remove-product", d.CartHandler.Remove, authMW)

	cart.POST("/create-checkout-session", d.OrderHandler.CreateCheckoutSession, authMW)
	cart.GET("/payment-success", d.OrderHandler.PaymentSuccess)
	cart.POST("/user-order-record", d.OrderHandler.UserOrders, authMW)

	cart.GET("/get-pending-order", d.OrderHandler.Pending, adminMW)
	cart.GET("/get-completed-order", d.OrderHandler.Completed, adminMW)
	cart.POST("/update-pending-order/:id", d.OrderHandler.Complete, adminMW)
	cart.POST("/revert-completed-order/:id", d.OrderHandler.Revert, adminMW)
}
