package stockControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/models"
)

const defaultLogLimit = 50
const maxLogLimit = 500

// GET /stock/logs?since=<RFC3339>&limit=<n>&product_id=<id>
// Newest first. The ledger has no write endpoint; rows only appear through
// stock-mutating transactions.
func QueryRecentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultLogLimit
		if limitStr := c.Query("limit"); limitStr != "" {
			n, err := strconv.Atoi(limitStr)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			if n > maxLogLimit {
				n = maxLogLimit
			}
			limit = n
		}

		query := db.Model(&models.StockLog{})

		if sinceStr := c.Query("since"); sinceStr != "" {
			since, err := time.Parse(time.RFC3339, sinceStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since, expected RFC3339"})
				return
			}
			query = query.Where("created_at >= ?", since)
		}

		if productIDStr := c.Query("product_id"); productIDStr != "" {
			pid, err := strconv.ParseUint(productIDStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
				return
			}
			query = query.Where("product_id = ?", uint(pid))
		}

		var logs []models.StockLog
		if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
