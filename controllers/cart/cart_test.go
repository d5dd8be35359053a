package cartControllers

import (
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Brand: "NGK", Price: price, Stock: stock, Available: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAddItemCreatesCartAndLine(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Spark Plug", 8, 10)

	cart, err := AddItem(db, "u1", p.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, p.ID, cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Spark Plug", cart.Items[0].Name)
	assert.InDelta(t, 8.0, cart.Items[0].Price, 0.001)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Spark Plug", 8, 10)

	_, err := AddItem(db, "u1", p.ID, 2)
	require.NoError(t, err)
	cart, err := AddItem(db, "u1", p.ID, 3)
	require.NoError(t, err)

	// One line per distinct product, quantities merged.
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemInsufficientStockLeavesCartUnchanged(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Brake Disc", 70, 5)

	_, err := AddItem(db, "u1", p.ID, 10)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInsufficientStock, appErr.Code)

	cart, err := GetCart(db, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestAddItemCombinedQuantityChecksStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Brake Disc", 70, 5)

	_, err := AddItem(db, "u1", p.ID, 4)
	require.NoError(t, err)

	// 4 + 3 exceeds the 5 in stock.
	_, err = AddItem(db, "u1", p.ID, 3)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInsufficientStock, appErr.Code)

	cart, err := GetCart(db, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := newTestDB(t)

	_, err := AddItem(db, "u1", 999, 1)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUpdateItemQuantityZeroRemoves(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Cabin Filter", 15, 8)

	_, err := AddItem(db, "u1", p.ID, 2)
	require.NoError(t, err)

	cart, err := UpdateItemQuantity(db, "u1", p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateItemQuantityOverwrites(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Cabin Filter", 15, 8)

	_, err := AddItem(db, "u1", p.ID, 2)
	require.NoError(t, err)

	cart, err := UpdateItemQuantity(db, "u1", p.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	// Beyond stock fails.
	_, err = UpdateItemQuantity(db, "u1", p.ID, 9)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInsufficientStock, appErr.Code)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Headlight Bulb", 9, 20)

	_, err := AddItem(db, "u1", p.ID, 1)
	require.NoError(t, err)

	// First removal deletes the line, second is a no-op success.
	require.NoError(t, RemoveItem(db, "u1", p.ID))
	require.NoError(t, RemoveItem(db, "u1", p.ID))

	// Still fine for a product that was never in the cart.
	require.NoError(t, RemoveItem(db, "u1", 12345))

	// Only a missing cart is NotFound.
	err = RemoveItem(db, "nobody", p.ID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetCartEmptyShape(t *testing.T) {
	db := newTestDB(t)

	cart, err := GetCart(db, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", cart.OwnerID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestGetCartShowsLivePrice(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Battery", 100, 6)

	_, err := AddItem(db, "u1", p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 120).Error)

	cart, err := GetCart(db, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 120.0, cart.Items[0].Price, 0.001)
}

func TestClearDeletesCartDocument(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Battery", 100, 6)

	_, err := AddItem(db, "u1", p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, Clear(db, "u1"))

	var carts int64
	db.Model(&models.Cart{}).Where("owner_id = ?", "u1").Count(&carts)
	assert.Equal(t, int64(0), carts)

	// Clearing again is fine.
	require.NoError(t, Clear(db, "u1"))
}
