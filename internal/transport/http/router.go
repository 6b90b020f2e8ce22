package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vmhuong/dacsan_shop/internal/handlers"
	"github.com/vmhuong/dacsan_shop/internal/handlers/cart"
	"github.com/vmhuong/dacsan_shop/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *cart.CartHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
	TokenService   *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddleware, token.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	cartGroup := v1.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.POST("/checkout", d.CartHandler.Checkout)
	cartGroup.DELETE("/:id", d.CartHandler.DeleteOneFromCart)
	cartGroup.DELETE("/:id/all", d.CartHandler.DeleteAllFromCart)

	ordersGroup := v1.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	ordersGroup.POST("", d.OrderHandler.CreateOrder)
	ordersGroup.GET("", d.OrderHandler.ListOrders, token.RequireAdmin)
	ordersGroup.GET("/user/:userId", d.OrderHandler.GetUserOrders)
	ordersGroup.GET("/:id", d.OrderHandler.GetOrder)
	ordersGroup.PUT("/:id/cancel", d.OrderHandler.CancelOrder)
	ordersGroup.PUT("/:id/status", d.OrderHandler.UpdateStatus, token.RequireAdmin)
}
