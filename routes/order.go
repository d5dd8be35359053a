package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/config"
	orderControllers "github.com/aam-bd/autopartzone-api/controllers/order"
	stockControllers "github.com/aam-bd/autopartzone-api/controllers/stock"
	"github.com/aam-bd/autopartzone-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Place a new order from the cart or an explicit item list
		orders.POST("/place", orderControllers.PlaceOrderHandler(db, cfg))

		// Re-order a past order at current prices
		orders.POST("/:orderID/reorder", orderControllers.ReorderHandler(db, cfg))

		// Cancel own order before it ships
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(db))

		// Own order history, newest first
		orders.GET("/mine", orderControllers.GetUserOrdersHandler(db))

		// Single order by id or order number
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Staff/admin surface
		staff := orders.Group("")
		staff.Use(middleware.RequireRole("staff", "admin"))
		{
			staff.GET("/", orderControllers.GetAllOrdersHandler(db))
			staff.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		}
	}

	// websocket endpoint for real-time order updates (back office)
	r.GET("/orders/ws",
		middleware.ValidateToken(cfg.JWTSecret),
		middleware.RequireRole("staff", "admin"),
		orderControllers.OrderWebSocketHandler,
	)

	// Stock ledger, read-only, staff only
	stock := r.Group("/stock")
	stock.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRole("staff", "admin"))
	{
		stock.GET("/logs", stockControllers.QueryRecentHandler(db))
	}
}
