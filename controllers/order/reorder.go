package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	"github.com/aam-bd/autopartzone-api/config"
	"github.com/aam-bd/autopartzone-api/models"
)

type ReorderRequest struct {
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method"`
}

// POST /orders/:orderID/reorder
// Builds a fresh order from a past one. Prices and names are re-snapshotted
// from the current catalog, a product discontinued since then fails the
// whole request with NotFound.
func ReorderHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		orderID := c.Param("orderID")

		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var previous models.Order
		if err := db.Preload("Items").
			Scopes(ByRef(orderID)).
			Where("owner_id = ?", userID).
			First(&previous).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("order"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		lines := make([]OrderLine, 0, len(previous.Items))
		for _, item := range previous.Items {
			lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := PlaceOrder(db, cfg, PlaceOrderInput{
			OwnerID:         userID,
			Lines:           lines,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		audit.Record(db, userID, "order.place", "order", order.OrderNumber, "reorder of "+previous.OrderNumber, true)
		BroadcastOrderEvent("order.created", order)

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total,
		})
	}
}
