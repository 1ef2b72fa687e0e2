package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/service"
	"github.com/Skotchmaster/football_store/internal/transport"
	"github.com/Skotchmaster/football_store/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// ListProducts serves the whole catalog, one category (?category=) or a name search (?q=).
func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	var (
		items []models.Product
		err   error
	)
	switch {
	case c.QueryParam("q") != "":
		items, err = h.Svc.SearchByName(ctx, c.QueryParam("q"))
	case c.QueryParam("category") != "":
		items, err = h.Svc.ListByCategory(ctx, c.QueryParam("category"))
	default:
		items, err = h.Svc.ListAll(ctx)
	}
	if err != nil {
		return fail(l, "list_products_error", err)
	}

	return c.JSON(http.StatusOK, paginate(items, c.QueryParam("page"), c.QueryParam("size")))
}

func (h *CatalogHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.featured")

	items, err := h.Svc.GetFeaturedProducts(ctx)
	if err != nil {
		return fail(l, "featured_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_product_error", "invalid product id", err)
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	p, err := h.Svc.CreateProduct(ctx, productInput(req))
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_product_error", "invalid product id", err)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_product_error", "invalid body", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, id, productInput(req))
	if err != nil {
		return fail(l, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_product_error", "invalid product id", err)
	}

	if err := h.Svc.SoftDeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func productInput(req transport.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	}
}
