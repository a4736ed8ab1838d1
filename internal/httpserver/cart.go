package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/Skotchmaster/gamestore/internal/transport"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	middleware "github.com/Skotchmaster/gamestore/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func currentUser(c echo.Context) (models.AuthenticatedUser, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return models.AuthenticatedUser{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication")
	}
	return u, nil
}

// bindProduct reads {"productId": "..."} from the body.
func bindProduct(c echo.Context) (string, error) {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return "", err
	}
	return req.ProductID, nil
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := bindProduct(c)
	if err != nil {
		return badRequest(l, "add_to_cart", "invalid body", err)
	}

	item, err := h.Svc.Add(ctx, user, productID)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}

	return c.JSON(http.StatusOK, transport.CartItemResponse{
		ProductID: productID,
		Quantity:  item.Quantity,
		Message:   "Product added to cart successfully",
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.List(ctx, user)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) Increase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.increase")

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := bindProduct(c)
	if err != nil {
		return badRequest(l, "increase_cart_item", "invalid body", err)
	}

	item, err := h.Svc.Increase(ctx, user, productID)
	if err != nil {
		return fail(l, "increase_cart_item", err)
	}

	return c.JSON(http.StatusOK, transport.CartItemResponse{
		ProductID: productID,
		Quantity:  item.Quantity,
		Message:   "Product quantity increased successfully",
	})
}

func (h *CartHTTP) Decrease(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.decrease")

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := bindProduct(c)
	if err != nil {
		return badRequest(l, "decrease_cart_item", "invalid body", err)
	}

	item, deleted, err := h.Svc.Decrease(ctx, user, productID)
	if err != nil {
		return fail(l, "decrease_cart_item", err)
	}

	resp := transport.CartItemResponse{
		ProductID: productID,
		Deleted:   deleted,
		Message:   "Product quantity decreased successfully",
	}
	if item != nil {
		resp.Quantity = item.Quantity
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := bindProduct(c)
	if err != nil {
		return badRequest(l, "remove_cart_item", "invalid body", err)
	}

	if err := h.Svc.Remove(ctx, user, productID); err != nil {
		return fail(l, "remove_cart_item", err)
	}

	return c.JSON(http.StatusOK, transport.CartItemResponse{
		ProductID: productID,
		Deleted:   true,
		Message:   "Product removed from cart successfully",
	})
}
