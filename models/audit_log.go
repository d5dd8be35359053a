package models

import "time"

type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorID    string    `gorm:"index" json:"actor_id"`
	Action     string    `json:"action"` // order.place, order.cancel, payment.refund, stock.update
	Resource   string    `json:"resource"`
	ResourceID string    `gorm:"index" json:"resource_id"`
	Details    string    `json:"details"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}
