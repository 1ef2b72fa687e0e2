package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/football_store/internal/service"
	"github.com/Skotchmaster/football_store/pkg/logging"
	middleware "github.com/Skotchmaster/football_store/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, userID)
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.TotalPrice.StringFixed(2))
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}

	orders, err := h.Svc.GetOrdersByUser(ctx, userID)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}
