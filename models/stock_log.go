package models

import "time"

// StockLog is an append-only ledger of stock mutations. Rows are written in
// the same transaction as the mutation they describe and are never updated
// or deleted.
type StockLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id"`
	ActorID   string    `gorm:"index" json:"actor_id"` // staff id, or "user:<id>" for order fulfilment
	OldStock  int       `json:"old_stock"`
	NewStock  int       `json:"new_stock"`
	Reason    string    `json:"reason"` // manual, order, cancel, refund
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
