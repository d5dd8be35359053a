package paymentControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/config"
	orderControllers "github.com/aam-bd/autopartzone-api/controllers/order"
	"github.com/aam-bd/autopartzone-api/models"
)

// POST /payment/intent
// Re-validates stock and availability for every cart line, computes totals,
// requests an external payment intent and records it locally. No stock is
// decremented yet; that happens on confirmation.
func CreateIntentHandler(db *gorm.DB, cfg config.Config, client *ProcessorClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var cart models.Cart
		if err := db.Preload("Items").Where("owner_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.Validation("cart is empty"))
				return
			}
			apperrors.Respond(c, err)
			return
		}
		if len(cart.Items) == 0 {
			apperrors.Respond(c, apperrors.Validation("cart is empty"))
			return
		}

		var orderItems []models.OrderItem
		for _, item := range cart.Items {
			var product models.Product
			if err := db.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					apperrors.Respond(c, apperrors.NotFound("product"))
					return
				}
				apperrors.Respond(c, err)
				return
			}
			if !product.Available {
				apperrors.Respond(c, apperrors.Validation("product %q is no longer available", product.Name))
				return
			}
			if product.Stock < item.Quantity {
				apperrors.Respond(c, apperrors.InsufficientStock(product.ID, product.Name))
				return
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				UnitPrice: product.EffectivePrice(),
				Weight:    product.Weight,
				Quantity:  item.Quantity,
			})
		}

		subtotal, tax, shipping, total := orderControllers.ComputeTotals(orderItems, cfg)

		intent, err := client.CreateIntent(total, cfg.Currency, map[string]string{
			"owner_id": userID,
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		record := models.PaymentIntent{
			ProcessorRef: intent.ID,
			OwnerID:      userID,
			Amount:       total,
			Currency:     cfg.Currency,
			Status:       models.IntentStatusCreated,
		}
		if err := db.Create(&record).Error; err != nil {
			apperrors.Respond(c, fmt.Errorf("failed to record payment intent: %w", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"intent_ref":    intent.ID,
			"client_secret": intent.ClientSecret,
			"subtotal":      subtotal,
			"tax":           tax,
			"shipping_cost": shipping,
			"total":         total,
			"currency":      cfg.Currency,
		})
	}
}
