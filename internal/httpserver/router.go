package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skdm/shopkart/internal/handlers"
	"github.com/skdm/shopkart/internal/middleware/auth"
)

type Deps struct {
	OrderHandler    *handlers.OrderHandler
	ActivityHandler *handlers.ActivityHandler
	JWTSecret       []byte

	// InvoiceDir is served statically; files are keyed by merchant order id
	// and never reused across orders.
	InvoiceDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/invoices", d.InvoiceDir)

	mw := &auth.Middleware{JWTSecret: d.JWTSecret}

	api := e.Group("/api")

	orders := api.Group("/orders")
	// Public: the gateway redirect target carries no auth header.
	orders.GET("/status/:orderId", d.OrderHandler.Status)

	orders.POST("", d.OrderHandler.CreateOrder, mw.RequireAuth)
	orders.POST("/createShipment", d.OrderHandler.CreateShipment, mw.RequireAuth)
	orders.GET("/user/:userId", d.OrderHandler.GetUserOrders, mw.RequireAuth)
	orders.GET("/:id", d.OrderHandler.GetOrder, mw.RequireAuth)

	orders.GET("", d.OrderHandler.GetAllOrders, mw.RequireAdmin)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, mw.RequireAdmin)

	activity := api.Group("/activity")
	activity.POST("", d.ActivityHandler.Track, mw.RequireAuth)
	activity.GET("", d.ActivityHandler.List, mw.RequireAdmin)
}
