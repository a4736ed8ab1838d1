package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/Skotchmaster/gamestore/internal/transport"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.Featured(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.featured"), "featured_products", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) Discounted(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.Discounted(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.discounted"), "discounted_products", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.ByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.category"), "category_products", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.SearchProducts(ctx, c.Param("keyword"))
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "catalog.search"), "search_products", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product", "invalid body", err)
	}

	product := req.Product()
	if err := h.Svc.CreateProduct(ctx, &product); err != nil {
		return fail(l, "create_product", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}
