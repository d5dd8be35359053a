package models

import "time"

const (
	IntentStatusCreated   = "created"
	IntentStatusSucceeded = "succeeded"
	IntentStatusFailed    = "failed"
	IntentStatusConsumed  = "consumed" // an order was created from this intent
)

// PaymentIntent mirrors one payment-processor intent. The unique ProcessorRef
// is the idempotency key: confirmations and webhook re-deliveries for the same
// ref collapse onto the same row and the same order.
type PaymentIntent struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ProcessorRef string  `gorm:"uniqueIndex;not null" json:"processor_ref"`
	OwnerID      string  `gorm:"index;not null" json:"owner_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `gorm:"default:'created'" json:"status"`
	OrderID      *uint   `json:"order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
