package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/config"
	paymentControllers "github.com/aam-bd/autopartzone-api/controllers/payment"
	"github.com/aam-bd/autopartzone-api/pkg/cache"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, products *cache.Products) {
	processor := paymentControllers.NewProcessorClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)

	// Public catalog routes (no auth)
	SetupCatalogRoutes(r, db, products)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db, cfg)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, cfg, products)

	// Order routes
	SetupOrderRoutes(r, db, cfg)

	// Payment routes
	SetupPaymentRoutes(r, db, cfg, processor)
}
