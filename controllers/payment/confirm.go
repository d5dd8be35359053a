package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	"github.com/aam-bd/autopartzone-api/config"
	orderControllers "github.com/aam-bd/autopartzone-api/controllers/order"
	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/metrics"
)

type ConfirmRequest struct {
	IntentRef       string         `json:"intent_ref" binding:"required"`
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
}

// ConfirmAndCreateOrder verifies the processor reports success for the
// intent, then runs the regular placement workflow with a paid descriptor.
// The processor ref is the idempotency key: a repeated confirmation for the
// same ref returns the existing order instead of creating a second one, so
// clients can safely retry after timeouts.
func ConfirmAndCreateOrder(db *gorm.DB, cfg config.Config, client *ProcessorClient, intentRef string, shipping, billing models.Address) (*models.Order, error) {
	var record models.PaymentIntent
	if err := db.Where("processor_ref = ?", intentRef).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment intent")
		}
		return nil, err
	}

	// Replayed confirmation: the intent was already consumed by an order.
	if record.OrderID != nil {
		var existing models.Order
		if err := db.Preload("Items").First(&existing, *record.OrderID).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	intent, err := client.GetIntent(intentRef)
	if err != nil {
		return nil, err
	}
	if intent.Status != models.IntentStatusSucceeded {
		return nil, apperrors.PaymentNotConfirmed(intent.Status)
	}

	order, err := orderControllers.PlaceOrder(db, cfg, orderControllers.PlaceOrderInput{
		OwnerID:         record.OwnerID,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   "card",
		PaymentStatus:   models.PaymentStatusPaid,
		PaymentRef:      intentRef,
		CardLast4:       intent.CardLast4,
	})
	if err != nil {
		// A unique payment_ref violation means a concurrent confirmation
		// won; return its order rather than failing the retry.
		var existing models.Order
		if lookupErr := db.Preload("Items").Where("payment_ref = ?", intentRef).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, err
	}

	if err := db.Model(&models.PaymentIntent{}).
		Where("id = ? AND order_id IS NULL", record.ID).
		Updates(map[string]interface{}{"status": models.IntentStatusConsumed, "order_id": order.ID}).Error; err != nil {
		return nil, err
	}

	metrics.PaymentConfirmations.Inc()
	return order, nil
}

// POST /payment/confirm
func ConfirmHandler(db *gorm.DB, cfg config.Config, client *ProcessorClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := ConfirmAndCreateOrder(db, cfg, client, req.IntentRef, req.ShippingAddress, req.BillingAddress)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		audit.Record(db, order.OwnerID, "order.place", "order", order.OrderNumber, "payment "+req.IntentRef, true)
		orderControllers.BroadcastOrderEvent("order.created", order)

		c.JSON(http.StatusOK, gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total,
			"status":       order.Status,
		})
	}
}
