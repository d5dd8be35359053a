package orderControllers

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockLog{},
		&models.PaymentIntent{},
		&models.AuditLog{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Brand: "Bosch", Price: price, Stock: stock, Available: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCart(t *testing.T, db *gorm.DB, ownerID string, productID uint, qty int) {
	t.Helper()
	cart := models.Cart{OwnerID: ownerID}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: productID, Quantity: qty}).Error)
}

func currentStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}

func TestPlaceOrderFromCart(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Brake Pad Set", 50, 5)
	seedCart(t, db, "u1", p.ID, 2)

	order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{OwnerID: "u1", PaymentMethod: "cod"})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, order.Subtotal, 0.01)
	assert.InDelta(t, 115.0, order.Total, 0.01)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	// Stock decremented and ledgered.
	assert.Equal(t, 3, currentStock(t, db, p.ID))
	var logs []models.StockLog
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, 5, logs[0].OldStock)
	assert.Equal(t, 3, logs[0].NewStock)
	assert.Equal(t, "order", logs[0].Reason)

	// Cart document is gone, not just emptied.
	var count int64
	db.Model(&models.Cart{}).Where("owner_id = ?", "u1").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)

	_, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{OwnerID: "u1"})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Air Filter", 25, 1)

	_, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 2}},
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, p.ID, appErr.ProductID)
	assert.Equal(t, "Air Filter", appErr.ProductName)

	// Nothing committed.
	assert.Equal(t, 1, currentStock(t, db, p.ID))
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
}

func TestPlaceOrderRollsBackEarlierDecrements(t *testing.T) {
	db := newTestDB(t)
	ok := seedProduct(t, db, "Spark Plug", 8, 10)
	scarce := seedProduct(t, db, "Turbocharger", 900, 1)

	_, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines: []OrderLine{
			{ProductID: ok.ID, Quantity: 4},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	require.Error(t, err)

	// The first line's decrement must have been rolled back with the rest.
	assert.Equal(t, 10, currentStock(t, db, ok.ID))
	assert.Equal(t, 1, currentStock(t, db, scarce.ID))

	var logs int64
	db.Model(&models.StockLog{}).Count(&logs)
	assert.Equal(t, int64(0), logs)
}

func TestNoOversellOnLastUnit(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Alternator", 120, 1)

	// Two buyers race for the last unit; the conditional decrement must let
	// exactly one through.
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, owner := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(owner string) {
			defer wg.Done()
			_, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
				OwnerID: owner,
				Lines:   []OrderLine{{ProductID: p.ID, Quantity: 1}},
			})
			results <- err
		}(owner)
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInsufficientStock, appErr.Code)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	assert.Equal(t, 0, currentStock(t, db, p.ID))

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(1), orders)
}

func TestPriceSnapshotStability(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Radiator", 80, 5)

	order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Reprice the catalog afterwards.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 999).Error)

	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	require.Len(t, reloaded.Items, 1)
	assert.InDelta(t, 80.0, reloaded.Items[0].UnitPrice, 0.001)
	assert.Equal(t, "Radiator", reloaded.Items[0].Name)
}

func TestPlaceOrderUnavailableProduct(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Clutch Kit", 300, 4)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("available", false).Error)

	_, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 1}},
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, 4, currentStock(t, db, p.ID))
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Fuel Pump", 60, 3)

	order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.OrderNumber, models.OrderStatusCancelled, "staff1")
	require.NoError(t, err)

	// delivered after cancelled must fail and leave the status alone.
	_, err = UpdateStatus(db, order.OrderNumber, models.OrderStatusDelivered, "staff1")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidTransition, appErr.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}

func TestCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Shock Absorber", 45, 10)

	order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, currentStock(t, db, p.ID))

	_, err = UpdateStatus(db, order.OrderNumber, models.OrderStatusCancelled, "staff1")
	require.NoError(t, err)

	assert.Equal(t, 10, currentStock(t, db, p.ID))

	var logs []models.StockLog
	require.NoError(t, db.Where("product_id = ?", p.ID).Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "order", logs[0].Reason)
	assert.Equal(t, "cancel", logs[1].Reason)
	assert.Equal(t, 7, logs[1].OldStock)
	assert.Equal(t, 10, logs[1].NewStock)
}

func TestRefundRestoresStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Timing Belt", 30, 10)

	order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, currentStock(t, db, p.ID))

	_, err = UpdateStatus(db, order.OrderNumber, models.OrderStatusProcessing, "staff1")
	require.NoError(t, err)
	_, err = UpdateStatus(db, order.OrderNumber, models.OrderStatusRefunded, "staff1")
	require.NoError(t, err)

	assert.Equal(t, 10, currentStock(t, db, p.ID))

	var entry models.StockLog
	require.NoError(t, db.Where("product_id = ? AND reason = ?", p.ID, "refund").First(&entry).Error)
	assert.Equal(t, 7, entry.OldStock)
	assert.Equal(t, 10, entry.NewStock)
}

func TestStockNeverNegative(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Wiper Blade", 12, 3)

	// A mix of successful and failing operations.
	for _, qty := range []int{2, 5, 1, 4} {
		order, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
			OwnerID: "u1",
			Lines:   []OrderLine{{ProductID: p.ID, Quantity: qty}},
		})
		if err == nil {
			_, _ = UpdateStatus(db, order.OrderNumber, models.OrderStatusCancelled, "staff1")
		} else {
			var appErr *apperrors.Error
			require.True(t, errors.As(err, &appErr))
		}
		assert.GreaterOrEqual(t, currentStock(t, db, p.ID), 0)
	}
}

func TestReorderSnapshotsCurrentPrice(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Oil Filter", 10, 20)

	first, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 15).Error)

	// Same lines as the old order, placed fresh.
	second, err := PlaceOrder(db, pricingConfig(), PlaceOrderInput{
		OwnerID: "u1",
		Lines:   []OrderLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	var firstReloaded, secondReloaded models.Order
	require.NoError(t, db.Preload("Items").First(&firstReloaded, first.ID).Error)
	require.NoError(t, db.Preload("Items").First(&secondReloaded, second.ID).Error)

	assert.InDelta(t, 10.0, firstReloaded.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 15.0, secondReloaded.Items[0].UnitPrice, 0.001)
}
