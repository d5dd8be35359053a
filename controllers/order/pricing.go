package orderControllers

import (
	"math"

	"github.com/aam-bd/autopartzone-api/config"
	"github.com/aam-bd/autopartzone-api/models"
)

// ComputeTotals applies the configured tax rate and weight-based shipping
// rule. Line items must already carry their snapshot prices.
func ComputeTotals(items []models.OrderItem, cfg config.Config) (subtotal, tax, shipping, total float64) {
	var totalWeight float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
		totalWeight += item.Weight * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	tax = round2(subtotal * cfg.TaxRatePercent / 100)

	// Flat base plus one slab fee per started 30kg above the first kg.
	shipping = cfg.ShippingFlat
	if totalWeight > 1 {
		shipping += math.Ceil((totalWeight-1)/30.0) * cfg.ShippingPerSlab
	}
	shipping = round2(shipping)

	total = round2(subtotal + tax + shipping)
	return subtotal, tax, shipping, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
