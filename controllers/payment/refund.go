package paymentControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	orderControllers "github.com/aam-bd/autopartzone-api/controllers/order"
	stockControllers "github.com/aam-bd/autopartzone-api/controllers/stock"
	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/metrics"
)

type RefundRequest struct {
	OrderID string  `json:"order_id" binding:"required"`
	Amount  float64 `json:"amount"` // zero means full refund
	Reason  string  `json:"reason"`
}

// POST /payment/refund (staff)
// Requests an external refund, then in one transaction sets the order
// refunded, restores stock per line item (ledger rows included) and records
// the refund metadata.
func RefundHandler(db *gorm.DB, client *ProcessorClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString("user_id")

		var req RefundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").
			Scopes(orderControllers.ByRef(req.OrderID)).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("order"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		if !orderRefundable(order.Status) {
			apperrors.Respond(c, apperrors.InvalidTransition(string(order.Status), string(models.OrderStatusRefunded)))
			return
		}
		if order.PaymentRef == "" {
			apperrors.Respond(c, apperrors.Validation("order has no payment to refund"))
			return
		}

		amount := req.Amount
		if amount <= 0 {
			amount = order.Total
		}
		if amount > order.Total {
			apperrors.Respond(c, apperrors.Validation("refund amount exceeds order total"))
			return
		}

		refund, err := client.CreateRefund(order.PaymentRef, amount, req.Reason)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, order.Status).
				Updates(map[string]interface{}{
					"status":         models.OrderStatusRefunded,
					"payment_status": models.PaymentStatusRefunded,
					"refund_ref":     refund.ID,
					"refund_amount":  amount,
					"refund_reason":  req.Reason,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.InvalidTransition(string(order.Status), string(models.OrderStatusRefunded))
			}

			for _, item := range order.Items {
				if err := stockControllers.Restore(tx, item.ProductID, item.Quantity, actorID, "refund"); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		metrics.StockRestored.Inc()
		audit.Record(db, actorID, "payment.refund", "order", order.OrderNumber,
			fmt.Sprintf("refund %s amount %.2f", refund.ID, amount), true)

		c.JSON(http.StatusOK, gin.H{
			"message":       "Order refunded",
			"refund_ref":    refund.ID,
			"refund_amount": amount,
		})
	}
}

func orderRefundable(status models.OrderStatus) bool {
	return status == models.OrderStatusProcessing || status == models.OrderStatusDelivered
}
