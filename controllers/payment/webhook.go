package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/config"
	orderControllers "github.com/aam-bd/autopartzone-api/controllers/order"
	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/logger"
)

type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"` // payment_intent.succeeded, payment_intent.payment_failed
	Data struct {
		IntentRef string `json:"intent_ref"`
	} `json:"data"`
}

// POST /payment/webhook
// Signature verification happens in middleware before this runs. Processors
// retry deliveries, so the handler is idempotent on the intent ref: a
// succeeded event confirms through the same path as a client confirmation,
// which is a no-op if the order already exists.
func WebhookHandler(db *gorm.DB, cfg config.Config, client *ProcessorClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event WebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
			return
		}
		if event.Data.IntentRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing intent_ref"})
			return
		}

		switch event.Type {
		case "payment_intent.succeeded":
			// Addresses come from the intent owner's profile on the webhook
			// path; the client confirmation path supplies them explicitly.
			shipping, billing := ownerAddresses(db, event.Data.IntentRef)

			order, err := ConfirmAndCreateOrder(db, cfg, client, event.Data.IntentRef, shipping, billing)
			if err != nil {
				logger.Error().
					Err(err).
					Str("intent_ref", event.Data.IntentRef).
					Str("event_id", event.ID).
					Msg("webhook order creation failed")
				apperrors.Respond(c, err)
				return
			}
			orderControllers.BroadcastOrderEvent("order.created", order)
			c.JSON(http.StatusOK, gin.H{"message": "ok", "order_number": order.OrderNumber})

		case "payment_intent.payment_failed":
			if err := db.Model(&models.PaymentIntent{}).
				Where("processor_ref = ? AND status = ?", event.Data.IntentRef, models.IntentStatusCreated).
				Update("status", models.IntentStatusFailed).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "ok"})

		default:
			// Unknown event types are acknowledged so the processor stops
			// retrying them.
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		}
	}
}

func ownerAddresses(db *gorm.DB, intentRef string) (models.Address, models.Address) {
	var record models.PaymentIntent
	if err := db.Where("processor_ref = ?", intentRef).First(&record).Error; err != nil {
		return models.Address{}, models.Address{}
	}
	var user models.User
	if err := db.First(&user, "id = ?", record.OwnerID).Error; err != nil {
		return models.Address{}, models.Address{}
	}
	return user.Address, user.Address
}
