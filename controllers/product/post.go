package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/models"
)

type CreateProductRequest struct {
	Name            string  `json:"name" binding:"required"`
	Brand           string  `json:"brand"`
	Description     string  `json:"description"`
	PartNumber      string  `json:"part_number"`
	Price           float64 `json:"price" binding:"required,gte=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100"`
	Image           string  `json:"image"`
	Weight          float64 `json:"weight" binding:"gte=0"`
	Stock           int     `json:"stock" binding:"gte=0"`
	Available       *bool   `json:"available"`
	CategoryIDs     []uint  `json:"category_ids"`
}

// CreateProduct adds a catalog entry with its category links.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var categories []models.Category
		if len(req.CategoryIDs) > 0 {
			if err := db.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
		}

		available := true
		if req.Available != nil {
			available = *req.Available
		}

		product := models.Product{
			Name:            req.Name,
			Brand:           req.Brand,
			Description:     req.Description,
			PartNumber:      req.PartNumber,
			Price:           req.Price,
			DiscountPercent: req.DiscountPercent,
			Image:           req.Image,
			Weight:          req.Weight,
			Stock:           req.Stock,
			Available:       available,
			Categories:      categories,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
