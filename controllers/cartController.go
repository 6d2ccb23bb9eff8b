package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

// getOrCreateCart is idempotent per (user, business). When two first
// adds race, the unique index rejects the second insert and the loser
// re-reads the winner's row.
func getOrCreateCart(db *gorm.DB, userID, businessID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ? AND business_id = ?", userID, businessID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{
		Name:       "My List",
		UserID:     userID,
		BusinessID: businessID,
		TotalCost:  0,
	}
	if err := db.Create(&cart).Error; err != nil {
		// Lost the race; the other request's cart is the cart.
		var existing models.Cart
		if dbErr := db.Where("user_id = ? AND business_id = ?", userID, businessID).First(&existing).Error; dbErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &cart, nil
}

// recalcCartTotal recomputes the persisted total from the full item set.
// Always a full recompute, never an in-place adjustment, so a retried or
// concurrent mutation cannot drift the stored value.
func recalcCartTotal(db *gorm.DB, cartID uint) error {
	var total float64
	row := db.Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return err
	}
	return db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_cost", total).Error
}

// cartItemViews merges product display fields (name, image) at read
// time. Category and requirement name come from the stored snapshot.
func cartItemViews(db *gorm.DB, cartID uint) ([]gin.H, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products := make(map[uint]models.Product)
	if len(productIDs) > 0 {
		var rows []models.Product
		if err := db.Where("id IN (?)", productIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			products[p.ID] = p
		}
	}

	views := make([]gin.H, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		views = append(views, gin.H{
			"id":              item.ID,
			"productId":       item.ProductID,
			"name":            product.Name,
			"price":           item.UnitPrice,
			"quantity":        item.Quantity,
			"image":           product.Image,
			"category":        item.Category,
			"requirementName": item.RequirementName,
		})
	}
	return views, nil
}

func cartResponse(db *gorm.DB, cart *models.Cart) (gin.H, error) {
	items, err := cartItemViews(db, cart.ID)
	if err != nil {
		return nil, err
	}
	// Re-read the total so the response reflects the last recompute.
	var fresh models.Cart
	if err := db.First(&fresh, cart.ID).Error; err != nil {
		return nil, err
	}
	return gin.H{
		"id":         fresh.ID,
		"name":       fresh.Name,
		"userId":     fresh.UserID,
		"businessId": fresh.BusinessID,
		"totalCost":  fresh.TotalCost,
		"items":      items,
	}, nil
}

// GetCart returns the caller's cart for a business, creating it on
// first read.
func GetCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	business, err := findBusiness(c.Param("businessId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	cart, err := getOrCreateCart(database.DB, userID.(uint), business.ID)
	if err != nil {
		log.Printf("Failed to get cart for user %v, business %d: %v", userID, business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// AddCartItem adds a product to the caller's cart. A duplicate add
// increments the quantity of the existing row and never touches its
// price snapshot.
func AddCartItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	business, err := findBusiness(c.Param("businessId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var input struct {
		ProductID       uint    `json:"productId" binding:"required"`
		Quantity        int     `json:"quantity"`
		Price           float64 `json:"price"`
		Category        string  `json:"category"`
		RequirementName string  `json:"requirementName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var product models.Product
	if err := database.DB.First(&product, input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// The unit price is snapshotted now: the catalog price unless the
	// caller passed the price it displayed.
	unitPrice := product.Price
	if input.Price > 0 {
		unitPrice = input.Price
	}
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}
	if input.RequirementName == "" {
		input.RequirementName = models.DefaultRequirementName
	}

	cart, err := getOrCreateCart(database.DB, userID.(uint), business.ID)
	if err != nil {
		log.Printf("Failed to get cart for user %v, business %d: %v", userID, business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	tx := database.DB.Begin()

	var item models.CartItem
	err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).First(&item).Error
	switch {
	case err == nil:
		if err := tx.Model(&item).Update("quantity", item.Quantity+input.Quantity).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:          cart.ID,
			ProductID:       input.ProductID,
			Quantity:        input.Quantity,
			UnitPrice:       unitPrice,
			Category:        input.Category,
			RequirementName: input.RequirementName,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
			return
		}
	default:
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
		return
	}

	if err := recalcCartTotal(tx, cart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", cart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// loadOwnedItem fetches a cart item and verifies the parent cart
// belongs to the caller before anything is mutated.
func loadOwnedItem(c *gin.Context) (*models.Cart, *models.CartItem, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, nil, false
	}

	var item models.CartItem
	if err := database.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return nil, nil, false
	}

	var cart models.Cart
	if err := database.DB.First(&cart, item.CartID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return nil, nil, false
	}

	if cart.UserID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this cart"})
		return nil, nil, false
	}

	return &cart, &item, true
}

// UpdateCartItem sets a new quantity. Zero or below removes the row.
func UpdateCartItem(c *gin.Context) {
	cart, item, ok := loadOwnedItem(c)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := database.DB.Begin()
	if input.Quantity <= 0 {
		if err := tx.Delete(item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
			return
		}
	} else {
		if err := tx.Model(item).Update("quantity", input.Quantity).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
	}
	if err := recalcCartTotal(tx, cart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", cart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func RemoveCartItem(c *gin.Context) {
	cart, item, ok := loadOwnedItem(c)
	if !ok {
		return
	}

	tx := database.DB.Begin()
	if err := tx.Delete(item).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}
	if err := recalcCartTotal(tx, cart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", cart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// findCallerCart looks up (never creates) the caller's cart. A missing
// cart is not an error for the clear endpoints; they report an empty
// item list.
func findCallerCart(c *gin.Context) (*models.Cart, bool, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false, false
	}

	business, err := findBusiness(c.Param("businessId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return nil, false, false
	}

	var cart models.Cart
	if err := database.DB.Where("user_id = ? AND business_id = ?", userID, business.ID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, true
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return nil, false, false
	}
	return &cart, true, true
}

// ClearCategory removes every item in the caller's cart for one
// category and returns what remains.
func ClearCategory(c *gin.Context) {
	cart, found, ok := findCallerCart(c)
	if !ok {
		return
	}

	var input struct {
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("cart_id = ? AND category = ?", cart.ID, input.Category).
		Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear category"})
		return
	}
	if err := recalcCartTotal(tx, cart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", cart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// ClearRequirement removes every item whose (requirementName, category)
// pair matches and returns what remains.
func ClearRequirement(c *gin.Context) {
	cart, found, ok := findCallerCart(c)
	if !ok {
		return
	}

	var input struct {
		Category        string `json:"category" binding:"required"`
		RequirementName string `json:"requirementName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("cart_id = ? AND category = ? AND requirement_name = ?",
		cart.ID, input.Category, input.RequirementName).
		Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear requirement"})
		return
	}
	if err := recalcCartTotal(tx, cart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", cart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// ClearCart removes every item and zeroes the total.
func ClearCart(c *gin.Context) {
	cart, found, ok := findCallerCart(c)
	if !ok {
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total_cost", 0).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
		return
	}
	tx.Commit()

	response, err := cartResponse(database.DB, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, response)
}
