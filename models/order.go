package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting fulfilment
	OrderStatusProcessing OrderStatus = "processing" // picked up by staff
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the parts
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before shipping, stock restored
	OrderStatusRefunded   OrderStatus = "refunded"   // refunded after payment, stock restored

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	OwnerID         string      `gorm:"index;not null" json:"owner_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	ShippingCost    float64     `json:"shipping_cost"`
	Total           float64     `json:"total"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	BillingAddress  Address     `gorm:"embedded;embeddedPrefix:bill_" json:"billing_address"`

	PaymentMethod string        `json:"payment_method"` // e.g. "card", "cod"
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	// PaymentRef is the processor transaction id; unique so a replayed
	// confirmation can never create a second order.
	PaymentRef   string `gorm:"uniqueIndex:idx_orders_payment_ref,where:payment_ref <> ''" json:"payment_ref,omitempty"`
	CardLast4    string `json:"card_last4,omitempty"`
	RefundRef    string `json:"refund_ref,omitempty"`
	RefundAmount float64 `json:"refund_amount,omitempty"`
	RefundReason string  `json:"refund_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem freezes the product's name, brand and effective price at order
// time. Historical orders stay stable when the catalog changes later.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unit_price"`
	Weight    float64 `json:"weight"`
	Quantity  int     `json:"quantity"`
}
