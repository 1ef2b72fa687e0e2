package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/football_store/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	UserHandler    *UserHTTP
	AdminHandler   *AdminHTTP
	JWTSecret      []byte
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewJWTMiddleware(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)

	products := e.Group("/catalog/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/featured", d.CatalogHandler.Featured)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	adminProducts := products.Group("", authMW.RequireAdmin)
	adminProducts.POST("", d.CatalogHandler.CreateProduct)
	adminProducts.PUT("/:id", d.CatalogHandler.UpdateProduct)
	adminProducts.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	cart := e.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.DELETE("/items/:product_id", d.CartHandler.RemoveItem)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListOrders)

	me := e.Group("/users/me", authMW.RequireAuth)
	me.GET("", d.UserHandler.Me)
	me.PUT("", d.UserHandler.EditMe)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.PATCH("/users/:id/role", d.AdminHandler.ChangeRole)
	admin.POST("/carts/expire", d.AdminHandler.ExpireCarts)
}
