package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/cache"
)

type UpdateProductRequest struct {
	Name            *string  `json:"name"`
	Brand           *string  `json:"brand"`
	Description     *string  `json:"description"`
	PartNumber      *string  `json:"part_number"`
	Price           *float64 `json:"price"`
	DiscountPercent *float64 `json:"discount_percent"`
	Image           *string  `json:"image"`
	Weight          *float64 `json:"weight"`
	Available       *bool    `json:"available"`
	CategoryIDs     []uint   `json:"category_ids"`
}

// UpdateProduct applies partial updates. Stock is deliberately absent here;
// stock changes go through the stock endpoint so every mutation lands in the
// ledger.
func UpdateProduct(db *gorm.DB, products *cache.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Brand != nil {
			product.Brand = *req.Brand
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.PartNumber != nil {
			product.PartNumber = *req.PartNumber
		}
		if req.Price != nil {
			if *req.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
				return
			}
			product.Price = *req.Price
		}
		if req.DiscountPercent != nil {
			if *req.DiscountPercent < 0 || *req.DiscountPercent > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent must be between 0 and 100"})
				return
			}
			product.DiscountPercent = *req.DiscountPercent
		}
		if req.Image != nil {
			product.Image = *req.Image
		}
		if req.Weight != nil {
			product.Weight = *req.Weight
		}
		if req.Available != nil {
			product.Available = *req.Available
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if req.CategoryIDs != nil {
				var categories []models.Category
				if err := tx.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			// Never write stock here: a concurrent order may have decremented
			// it since the read above, and writing the loaded value back would
			// revert that decrement behind the ledger's back.
			return tx.Omit("Stock").Save(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		products.Invalidate(c.Request.Context(), product.ID)
		c.JSON(http.StatusOK, product)
	}
}
