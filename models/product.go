package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string         `gorm:"not null;index" json:"name"`
	Brand           string         `gorm:"index" json:"brand"`
	PartNumber      string         `gorm:"index" json:"part_number"`
	Description     string         `json:"description"`
	Price           float64        `gorm:"not null" json:"price"`
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	Weight          float64        `gorm:"default:0" json:"weight"` // kilograms, per unit
	Stock           int            `gorm:"not null;default:0" json:"stock"`
	Image           string         `json:"image"`
	Available       bool           `gorm:"default:true" json:"available"`
	Categories      []Category     `gorm:"many2many:product_categories" json:"categories"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice is the unit price after the product-level discount.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * (100 - p.DiscountPercent) / 100
}
