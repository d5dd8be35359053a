package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	"github.com/aam-bd/autopartzone-api/config"
	stockControllers "github.com/aam-bd/autopartzone-api/controllers/stock"
	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/metrics"
)

// -------- Request Structs --------

type OrderLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items           []OrderLine    `json:"items"` // empty: order the user's cart
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method"`
}

// PlaceOrderInput is the full input to the placement workflow. The payment
// fields are only set on the payment-confirmation path.
type PlaceOrderInput struct {
	OwnerID         string
	Lines           []OrderLine
	ShippingAddress models.Address
	BillingAddress  models.Address
	PaymentMethod   string
	PaymentStatus   models.PaymentStatus
	PaymentRef      string
	CardLast4       string
}

// Generate a human-readable, unique order number.
func generateOrderNumber() string {
	return "APZ-" + time.Now().Format("20060102150405") + "-" + strings.Split(uuid.NewString(), "-")[0]
}

// -------- Core Logic --------

// PlaceOrder runs the whole placement workflow in one transaction: re-fetch
// every product, snapshot name/brand/price, conditionally decrement stock
// (ledger row per item), create the order, delete the originating cart.
// Any failed decrement rolls the whole thing back, so there are never
// partial orders or partial stock decrements.
func PlaceOrder(db *gorm.DB, cfg config.Config, in PlaceOrderInput) (*models.Order, error) {
	if in.OwnerID == "" {
		return nil, apperrors.Validation("owner is required")
	}

	lines := in.Lines
	var cartID uint
	if len(lines) == 0 {
		var cart models.Cart
		if err := db.Preload("Items").Where("owner_id = ?", in.OwnerID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("cart is empty")
			}
			return nil, err
		}
		if len(cart.Items) == 0 {
			return nil, apperrors.Validation("cart is empty")
		}
		cartID = cart.CartID
		for _, item := range cart.Items {
			lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}

	lines = mergeLines(lines)
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.Validation("quantity must be at least 1")
		}
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}

	actor := "user:" + in.OwnerID
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var orderItems []models.OrderItem

		for _, line := range lines {
			// Never trust a client-supplied price or name; the current
			// catalog row is the only source for the snapshot.
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("product")
				}
				return err
			}
			if !product.Available {
				return apperrors.Validation("product %q is not available", product.Name)
			}

			if err := stockControllers.Decrement(tx, &product, line.Quantity, actor); err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Brand:     product.Brand,
				Image:     product.Image,
				UnitPrice: product.EffectivePrice(),
				Weight:    product.Weight,
				Quantity:  line.Quantity,
			})
		}

		subtotal, tax, shipping, total := ComputeTotals(orderItems, cfg)

		order = models.Order{
			OrderNumber:     generateOrderNumber(),
			OwnerID:         in.OwnerID,
			Items:           orderItems,
			Subtotal:        subtotal,
			Tax:             tax,
			ShippingCost:    shipping,
			Total:           total,
			Status:          models.OrderStatusPending,
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  in.BillingAddress,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   paymentStatus,
			PaymentRef:      in.PaymentRef,
			CardLast4:       in.CardLast4,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear the originating cart, whole document, not just the items.
		if cartID != 0 {
			if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("cart_id = ?", cartID).Delete(&models.Cart{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			metrics.OrdersRejected.WithLabelValues(appErr.Code).Inc()
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	return &order, nil
}

// mergeLines collapses duplicate product references into one line each.
func mergeLines(lines []OrderLine) []OrderLine {
	merged := make([]OrderLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// -------- Handlers --------

// POST /orders/place
func PlaceOrderHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := PlaceOrder(db, cfg, PlaceOrderInput{
			OwnerID:         userID,
			Lines:           req.Items,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		audit.Record(db, userID, "order.place", "order", order.OrderNumber, "", true)
		BroadcastOrderEvent("order.created", order)

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total,
		})
	}
}
