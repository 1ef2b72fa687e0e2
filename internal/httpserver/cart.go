package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/football_store/internal/service"
	"github.com/Skotchmaster/football_store/internal/transport"
	"github.com/Skotchmaster/football_store/pkg/logging"
	middleware "github.com/Skotchmaster/football_store/pkg/middleware/auth"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	cart, err := h.Svc.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewCartResponse(cart, h.Svc.ComputeCartTotal(cart)))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}
	if req.ProductID == uuid.Nil {
		return badRequest(l, "add_to_cart_error", "product_id required", nil)
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "remove_cart_item_error", err)
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return badRequest(l, "remove_cart_item_error", "invalid product id", err)
	}

	if err := h.Svc.RemoveCartItem(ctx, userID, productID); err != nil {
		return fail(l, "remove_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	cart, err := h.Svc.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}
	if err := h.Svc.ClearCart(ctx, cart.ID); err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success", "cart_id", cart.ID)
	return c.NoContent(http.StatusNoContent)
}
