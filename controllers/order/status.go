package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	stockControllers "github.com/aam-bd/autopartzone-api/controllers/stock"
	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/metrics"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// transitions is the fixed order state machine. delivered, cancelled and
// refunded are terminal, except that a delivered order may still be refunded.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusRefunded},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(strings.ToLower(status)) {
	case models.OrderStatusPending:
		return models.OrderStatusPending, nil
	case models.OrderStatusProcessing:
		return models.OrderStatusProcessing, nil
	case models.OrderStatusShipped:
		return models.OrderStatusShipped, nil
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered, nil
	case models.OrderStatusCancelled:
		return models.OrderStatusCancelled, nil
	case models.OrderStatusRefunded:
		return models.OrderStatusRefunded, nil
	default:
		return "", apperrors.Validation("invalid order status %q", status)
	}
}

// UpdateStatus enforces the state machine. Moving into cancelled or refunded
// restores stock for every line item in the same transaction, each
// restoration appended to the stock ledger.
func UpdateStatus(db *gorm.DB, orderID string, newStatus models.OrderStatus, actorID string) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Scopes(ByRef(orderID)).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order")
			}
			return err
		}

		if !CanTransition(order.Status, newStatus) {
			return apperrors.InvalidTransition(string(order.Status), string(newStatus))
		}

		// Guard on the observed status so a concurrent transition loses
		// cleanly instead of double-applying.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidTransition(string(order.Status), string(newStatus))
		}

		if newStatus == models.OrderStatusCancelled || newStatus == models.OrderStatusRefunded {
			reason := "cancel"
			if newStatus == models.OrderStatusRefunded {
				reason = "refund"
			}
			for _, item := range order.Items {
				if err := stockControllers.Restore(tx, item.ProductID, item.Quantity, actorID, reason); err != nil {
					return err
				}
			}
			metrics.StockRestored.Inc()
		}

		order.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PUT /orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		actorID := c.GetString("user_id")
		order, err := UpdateStatus(db, orderID, newStatus, actorID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		BroadcastOrderEvent("order.status_changed", order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "status": order.Status})
	}
}

// POST /orders/:orderID/cancel — customers may cancel their own order while
// it has not shipped.
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		orderID := c.Param("orderID")

		var order models.Order
		if err := db.Scopes(ByRef(orderID)).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("order"))
				return
			}
			apperrors.Respond(c, err)
			return
		}
		if order.OwnerID != userID {
			apperrors.Respond(c, apperrors.Forbidden("not your order"))
			return
		}

		updated, err := UpdateStatus(db, orderID, models.OrderStatusCancelled, "user:"+userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		audit.Record(db, userID, "order.cancel", "order", updated.OrderNumber, "", true)
		BroadcastOrderEvent("order.status_changed", updated)
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "status": updated.Status})
	}
}
