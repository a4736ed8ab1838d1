package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/Skotchmaster/gamestore/internal/transport"
	"github.com/Skotchmaster/gamestore/internal/util"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService

	// SuccessURL is where the buyer lands after a completed payment.
	SuccessURL string
}

func (h *OrderHTTP) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req []transport.CheckoutItem
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_checkout_session", "invalid body", err)
	}

	lines := make([]service.CheckoutLine, 0, len(req))
	for _, it := range req {
		lines = append(lines, service.CheckoutLine{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}

	redirect, err := h.Svc.InitiateCheckout(ctx, user, lines)
	if err != nil {
		return fail(l, "create_checkout_session", err)
	}

	l.Info("create_checkout_session_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Message:     "Redirecting to payment page",
		RedirectURL: redirect,
	})
}

// PaymentSuccess is the callback the payment provider redirects the buyer to.
// It carries no token, the user is identified by the userId query parameter.
func (h *OrderHTTP) PaymentSuccess(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.payment_success")

	orderID, lines, err := h.Svc.OnPaymentSuccess(ctx, c.QueryParam("userId"))
	if err != nil {
		return fail(l, "payment_success", err)
	}

	l.Info("payment_success", "order_id", orderID, "lines", len(lines))
	return c.Redirect(http.StatusFound, h.SuccessURL)
}

func (h *OrderHTTP) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_orders")

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.ListForUser(ctx, user)
	if err != nil {
		return fail(l, "user_order_record", err)
	}
	return c.JSON(http.StatusOK, paged(c, lines))
}

func (h *OrderHTTP) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	lines, err := h.Svc.ListPending(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "order.pending"), "get_pending_order", err)
	}
	return c.JSON(http.StatusOK, paged(c, lines))
}

func (h *OrderHTTP) Completed(c echo.Context) error {
	ctx := c.Request().Context()
	lines, err := h.Svc.ListCompleted(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "order.completed"), "get_completed_order", err)
	}
	return c.JSON(http.StatusOK, paged(c, lines))
}

func (h *OrderHTTP) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.complete")

	orderID := c.Param("id")
	n, err := h.Svc.MarkOrderCompleted(ctx, orderID)
	if err != nil {
		return fail(l, "update_pending_order", err)
	}

	l.Info("update_pending_order_success", "order_id", orderID, "updated", n)
	return c.JSON(http.StatusOK, transport.TransitionResponse{OrderID: orderID, Updated: n})
}

func (h *OrderHTTP) Revert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.revert")

	orderID := c.Param("id")
	n, err := h.Svc.RevertOrderToPending(ctx, orderID)
	if err != nil {
		return fail(l, "revert_completed_order", err)
	}

	l.Info("revert_completed_order_success", "order_id", orderID, "updated", n)
	return c.JSON(http.StatusOK, transport.TransitionResponse{OrderID: orderID, Updated: n})
}

// paged applies ?page= and ?size= when page is given. Without it the whole
// list is returned.
func paged(c echo.Context, lines []models.OrderLine) []models.OrderLine {
	if c.QueryParam("page") == "" {
		return lines
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return util.Page(lines, page, size)
}
