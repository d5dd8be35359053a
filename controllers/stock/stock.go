package stockControllers

import (
	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/models"
	"gorm.io/gorm"
)

// Decrement takes qty units off a product's stock only if enough remain.
// The UPDATE carries the stock >= qty guard, so two concurrent orders racing
// for the last unit cannot both succeed; the loser sees zero rows affected.
// A ledger row goes into the same transaction.
func Decrement(tx *gorm.DB, product *models.Product, qty int, actorID string) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", product.ID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.InsufficientStock(product.ID, product.Name)
	}

	// Re-read inside the transaction so the ledger records the values the
	// decrement actually applied to, not a stale snapshot.
	var after models.Product
	if err := tx.Select("stock").First(&after, product.ID).Error; err != nil {
		return err
	}
	return appendLog(tx, product.ID, actorID, after.Stock+qty, after.Stock, "order")
}

// Restore puts qty units back, used by cancellations and refunds.
func Restore(tx *gorm.DB, productID uint, qty int, actorID, reason string) error {
	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Product discontinued since the order; nothing to restore into.
		return nil
	}

	var after models.Product
	if err := tx.Select("stock").First(&after, productID).Error; err != nil {
		return err
	}
	return appendLog(tx, productID, actorID, after.Stock-qty, after.Stock, reason)
}

// SetManual overwrites stock to an absolute value. Permitted for staff
// corrections only; order fulfilment must go through Decrement/Restore.
func SetManual(tx *gorm.DB, productID uint, newStock int, actorID string) error {
	if newStock < 0 {
		return apperrors.Validation("stock cannot be negative")
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("product")
		}
		return err
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", newStock).Error; err != nil {
		return err
	}
	return appendLog(tx, productID, actorID, product.Stock, newStock, "manual")
}

func appendLog(tx *gorm.DB, productID uint, actorID string, oldStock, newStock int, reason string) error {
	return tx.Create(&models.StockLog{
		ProductID: productID,
		ActorID:   actorID,
		OldStock:  oldStock,
		NewStock:  newStock,
		Reason:    reason,
	}).Error
}
