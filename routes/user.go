package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/config"
	cartControllers "github.com/aam-bd/autopartzone-api/controllers/cart"
	productcontroller "github.com/aam-bd/autopartzone-api/controllers/product"
	userControllers "github.com/aam-bd/autopartzone-api/controllers/user"
	"github.com/aam-bd/autopartzone-api/middleware"
	"github.com/aam-bd/autopartzone-api/pkg/cache"
)

// SetupCatalogRoutes registers the public browse endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB, products *cache.Products) {
	catalog := r.Group("/products")
	{
		catalog.GET("", productcontroller.GetProducts(db))
		catalog.GET("/:id", productcontroller.GetProductByID(db, products))
		catalog.GET("/brands", productcontroller.GetBrands(db))
		catalog.GET("/categories", productcontroller.GetAllCategories(db))
	}
}

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// User profile
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCartHandler(db))
			cartGroup.POST("/", cartControllers.AddCartItemHandler(db))
			cartGroup.PUT("/", cartControllers.UpdateCartItemHandler(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItemHandler(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCartHandler(db))
		}
	}
}
