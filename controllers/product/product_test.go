package productcontroller

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/cache"
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
		&models.StockLog{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Brand: "Bosch", Price: price, Stock: stock, Available: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

// interleaveDecrement fires an order-style conditional decrement right after
// the next products query, simulating an order placement racing the handler
// between its read and its write.
func interleaveDecrement(t *testing.T, db *gorm.DB, productID uint, qty int) {
	t.Helper()
	fired := false
	err := db.Callback().Query().After("gorm:query").Register("interleaved_order", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "products" {
			return
		}
		fired = true
		db.Exec("UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?", qty, productID, qty)
	})
	require.NoError(t, err)
}

func TestUpdateProductNeverWritesStock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	p := seedProduct(t, db, "Brake Disc", 70, 5)

	interleaveDecrement(t, db, p.ID, 2)

	r := gin.New()
	r.PUT("/admin/products/:id", UpdateProduct(db, (*cache.Products)(nil)))

	req := httptest.NewRequest("PUT", "/admin/products/1", strings.NewReader(`{"name":"Brake Disc Pro"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The rename landed; the racing decrement did not get reverted.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, "Brake Disc Pro", reloaded.Name)
	assert.Equal(t, 3, reloaded.Stock)
}

func buildImportSheet(t *testing.T, id uint, name string, stock int) *bytes.Buffer {
	t.Helper()
	xf := xlsx.NewFile()
	sheet, err := xf.AddSheet("Products")
	require.NoError(t, err)

	hdr := sheet.AddRow()
	for _, h := range []string{
		"id", "name", "brand", "part_number", "description",
		"price", "discount_percent", "weight", "stock", "image", "category_ids",
	} {
		hdr.AddCell().SetValue(h)
	}

	row := sheet.AddRow()
	row.AddCell().SetValue(int(id))
	row.AddCell().SetValue(name)
	row.AddCell().SetValue("Bosch")
	row.AddCell().SetValue("BD-100")
	row.AddCell().SetValue("front axle")
	row.AddCell().SetValue(70)
	row.AddCell().SetValue(0)
	row.AddCell().SetValue(2)
	row.AddCell().SetValue(stock)
	row.AddCell().SetValue("")
	row.AddCell().SetValue("")

	var buf bytes.Buffer
	require.NoError(t, xf.Write(&buf))
	return &buf
}

func TestImportExcelNeverWritesStock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	p := seedProduct(t, db, "Brake Disc", 70, 5)

	interleaveDecrement(t, db, p.ID, 2)

	// The sheet carries a stock column, but the update path must ignore it.
	sheet := buildImportSheet(t, p.ID, "Brake Disc Pro", 9)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/admin/products/import-excel", ImportProductsFromExcel(db))

	req := httptest.NewRequest("POST", "/admin/products/import-excel", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":1`)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, "Brake Disc Pro", reloaded.Name)
	assert.Equal(t, 3, reloaded.Stock)
}
