package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/apperrors"
	"github.com/aam-bd/autopartzone-api/models"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// HydratedItem joins a cart line with the live catalog. Cart display always
// shows current prices; the order workflow re-validates and snapshots at
// placement time instead of trusting these.
type HydratedItem struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Stock     int       `json:"stock"`
	Available bool      `json:"available"`
	AddedAt   time.Time `json:"added_at"`
}

type CartResponse struct {
	OwnerID string         `json:"owner_id"`
	Items   []HydratedItem `json:"items"`
}

// AddItem validates quantity and stock, then appends a new line item or
// increments the existing one for the same product.
func AddItem(db *gorm.DB, ownerID string, productID uint, quantity int) (*CartResponse, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, err
	}
	if !product.Available {
		return nil, apperrors.Validation("product %q is not available", product.Name)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("owner_id = ?", ownerID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{OwnerID: ownerID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if product.Stock < quantity {
				return apperrors.InsufficientStock(product.ID, product.Name)
			}
			return tx.Create(&models.CartItem{
				CartID:    cart.CartID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}).Error
		}

		// Existing line: the combined quantity must still fit the stock.
		if product.Stock < item.Quantity+quantity {
			return apperrors.InsufficientStock(product.ID, product.Name)
		}
		item.Quantity += quantity
		item.AddedAt = time.Now()
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	return GetCart(db, ownerID)
}

// UpdateItemQuantity overwrites a line's quantity; zero or less removes it.
func UpdateItemQuantity(db *gorm.DB, ownerID string, productID uint, quantity int) (*CartResponse, error) {
	if quantity <= 0 {
		if err := RemoveItem(db, ownerID, productID); err != nil {
			return nil, err
		}
		return GetCart(db, ownerID)
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, apperrors.InsufficientStock(product.ID, product.Name)
	}

	var cart models.Cart
	if err := db.Where("owner_id = ?", ownerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart")
		}
		return nil, err
	}

	res := db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "added_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("cart item")
	}

	return GetCart(db, ownerID)
}

// RemoveItem is idempotent: removing an already-absent item succeeds, so
// retry-safe clients can fire it blindly. Only a missing cart is NotFound.
func RemoveItem(db *gorm.DB, ownerID string, productID uint) error {
	var cart models.Cart
	if err := db.Where("owner_id = ?", ownerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart")
		}
		return err
	}

	return db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Delete(&models.CartItem{}).Error
}

// GetCart never fails on absence; an owner without a cart gets the empty
// shape back.
func GetCart(db *gorm.DB, ownerID string) (*CartResponse, error) {
	resp := &CartResponse{OwnerID: ownerID, Items: []HydratedItem{}}

	var cart models.Cart
	if err := db.Preload("Items").Where("owner_id = ?", ownerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, err
	}

	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Discontinued since it was added; keep the line so the
				// client can surface it, with availability off.
				resp.Items = append(resp.Items, HydratedItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					AddedAt:   item.AddedAt,
				})
				continue
			}
			return nil, err
		}
		resp.Items = append(resp.Items, HydratedItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Name:      product.Name,
			Brand:     product.Brand,
			Price:     product.EffectivePrice(),
			Image:     product.Image,
			Stock:     product.Stock,
			Available: product.Available,
			AddedAt:   item.AddedAt,
		})
	}
	return resp, nil
}

// Clear deletes the cart document entirely, not just its items.
func Clear(db *gorm.DB, ownerID string) error {
	var cart models.Cart
	if err := db.Where("owner_id = ?", ownerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}

// -------- Handlers --------

// POST /user/cart
func AddCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, cart)
	}
}

// PUT /user/cart
func UpdateCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := UpdateItemQuantity(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		if err := RemoveItem(db, userID, uint(productID)); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// GET /user/cart
func GetUserCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := GetCart(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /user/cart
func ClearUserCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if err := Clear(db, userID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		cart, err := GetCart(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
