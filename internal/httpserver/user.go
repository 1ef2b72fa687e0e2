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

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "get_profile_error", err)
	}

	user, err := h.Svc.GetUser(ctx, userID)
	if err != nil {
		return fail(l, "get_profile_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) EditMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.edit")

	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(l, "edit_profile_error", err)
	}

	var req transport.EditProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "edit_profile_error", "invalid body", err)
	}

	user, err := h.Svc.EditProfile(ctx, userID, service.ProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return fail(l, "edit_profile_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

type AdminHTTP struct {
	Users *service.UserService
	Carts *service.CartService
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) ChangeRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.change_role")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "change_role_error", "invalid user id", err)
	}

	user, err := h.Users.ChangeRole(ctx, id)
	if err != nil {
		return fail(l, "change_role_error", err)
	}

	l.Info("change_role_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) ExpireCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.expire_carts")

	n, err := h.Carts.ExpireAbandonedCarts(ctx)
	if err != nil {
		return fail(l, "expire_carts_error", err)
	}
	return c.JSON(http.StatusOK, transport.ExpireCartsResponse{Cleared: n})
}
