package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/models"
)

// POST /admin/products/import-excel
// Rows with an existing id update that product; rows without create one.
// Malformed rows are skipped and counted, not fatal.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			// Columns: id, name, brand, part_number, description, price,
			// discount_percent, weight, stock, image, category_ids
			idStr := get(0)
			name := get(1)
			brand := get(2)
			partNumber := get(3)
			description := get(4)
			price, priceErr := strconv.ParseFloat(get(5), 64)
			discount, _ := strconv.ParseFloat(get(6), 64)
			weight, _ := strconv.ParseFloat(get(7), 64)
			stock, _ := strconv.Atoi(get(8))
			image := get(9)
			categoryIDStr := get(10)

			if name == "" || priceErr != nil || price < 0 || stock < 0 {
				skippedCount++
				continue
			}

			var categories []models.Category
			if categoryIDStr != "" {
				var parsedIDs []uint
				for _, part := range strings.Split(categoryIDStr, ",") {
					if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
						parsedIDs = append(parsedIDs, uint(id))
					}
				}
				if len(parsedIDs) > 0 {
					db.Where("id IN ?", parsedIDs).Find(&categories)
				}
			}

			product := models.Product{
				Name:            name,
				Brand:           brand,
				PartNumber:      partNumber,
				Description:     description,
				Price:           price,
				DiscountPercent: discount,
				Weight:          weight,
				Stock:           stock,
				Image:           image,
				Available:       true,
				Categories:      categories,
			}

			if idStr != "" {
				if id, err := strconv.ParseUint(idStr, 10, 64); err == nil {
					var existing models.Product
					if db.First(&existing, id).Error == nil {
						product.ID = existing.ID
						// Stock changes only via the stock endpoint; omit the
						// column entirely so the import can never revert a
						// decrement that raced it.
						if err := db.Omit("Stock").Save(&product).Error; err == nil {
							updatedCount++
						} else {
							skippedCount++
						}
						continue
					}
				}
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}
