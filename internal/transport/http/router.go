package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/canteen/internal/handlers"
	auth "github.com/Skotchmaster/canteen/internal/middleware/auth"
)

type Deps struct {
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Cart    *handlers.CartHandler
	Order   *handlers.OrderHandler
	Admin   *handlers.AdminHandler
	Search  *handlers.SearchHandler
	AuthMW  *auth.AutoRefreshMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api/v1")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/refresh", d.Auth.Refresh)
	api.POST("/auth/logout", d.Auth.Logout)

	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/food", d.Catalog.ListFoodItems)
	api.GET("/food/:id", d.Catalog.GetFoodItem)
	api.GET("/search", d.Search.Handler)

	private := api.Group("")
	private.Use(d.AuthMW.RequireAuth)

	private.GET("/cart", d.Cart.GetCart)
	private.POST("/cart/items", d.Cart.AddItem)
	private.PATCH("/cart/items/:food_item_id", d.Cart.AdjustItem)
	private.DELETE("/cart/items/:food_item_id", d.Cart.RemoveItem)
	private.DELETE("/cart", d.Cart.Clear)

	private.POST("/orders", d.Order.PlaceOrder)
	private.GET("/orders", d.Order.GetHistory)
	private.GET("/orders/:id", d.Order.GetDetail)

	admin := api.Group("/admin")
	admin.Use(d.AuthMW.RequireAdmin)

	admin.GET("/stats", d.Admin.Stats)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.PATCH("/orders/:id/status", d.Admin.UpdateOrderStatus)

	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.PATCH("/categories/:id", d.Catalog.UpdateCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)

	admin.POST("/food", d.Catalog.CreateFoodItem)
	admin.PATCH("/food/:id", d.Catalog.PatchFoodItem)
	admin.DELETE("/food/:id", d.Catalog.DeleteFoodItem)
}
