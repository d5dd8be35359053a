package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/audit"
	stockControllers "github.com/aam-bd/autopartzone-api/controllers/stock"
	"github.com/aam-bd/autopartzone-api/pkg/cache"
)

type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// PUT /admin/products/:id/stock (staff)
// Absolute overwrite for manual corrections only; order fulfilment never
// comes through here. Ledger row is written in the same transaction.
func UpdateStock(db *gorm.DB, products *cache.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var req UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// API-key callers carry no user identity.
		actorID := c.GetString("user_id")
		if actorID == "" {
			actorID = "admin-api"
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			return stockControllers.SetManual(tx, uint(id), *req.Stock, actorID)
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		products.Invalidate(c.Request.Context(), uint(id))
		audit.Record(db, actorID, "stock.update", "product", strconv.FormatUint(id, 10),
			fmt.Sprintf("stock set to %d", *req.Stock), true)

		c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "stock": *req.Stock})
	}
}
