package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/config"
	paymentControllers "github.com/aam-bd/autopartzone-api/controllers/payment"
	"github.com/aam-bd/autopartzone-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, client *paymentControllers.ProcessorClient) {
	payment := r.Group("/payment")
	{
		// Intent creation and confirmation need an authenticated user
		authed := payment.Group("")
		authed.Use(middleware.ValidateToken(cfg.JWTSecret))
		{
			authed.POST("/intent", paymentControllers.CreateIntentHandler(db, cfg, client))
			authed.POST("/confirm", paymentControllers.ConfirmHandler(db, cfg, client))
		}

		// Refunds are a staff operation
		staff := payment.Group("")
		staff.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRole("staff", "admin"))
		{
			staff.POST("/refund", paymentControllers.RefundHandler(db, client))
		}

		// Webhook: signature verification happens in middleware
		payment.POST("/webhook",
			middleware.WebhookAuth(cfg.PaymentWebhookSecret, cfg.PaymentMode),
			paymentControllers.WebhookHandler(db, cfg, client),
		)
	}
}
