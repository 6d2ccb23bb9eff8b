package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

// ToggleShare publishes or unpublishes the caller's cart for a
// business. Unsharing deactivates the listing; resharing reactivates
// the same row so its counters carry over.
func ToggleShare(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		BusinessID uint  `json:"businessId" binding:"required"`
		IsShared   *bool `json:"isShared" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var business models.Business
	if err := database.DB.First(&business, input.BusinessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var cart models.Cart
	if err := database.DB.Where("user_id = ? AND business_id = ?", userID, business.ID).First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No cart found for this business"})
		return
	}

	var shared models.SharedBusiness
	err := database.DB.Where("user_id = ? AND business_id = ?", userID, business.ID).First(&shared).Error
	hasRow := err == nil

	if *input.IsShared {
		if hasRow {
			if err := database.DB.Model(&shared).Update("is_active", true).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share list"})
				return
			}
		} else {
			shared = models.SharedBusiness{
				UserID:      userID.(uint),
				BusinessID:  business.ID,
				Name:        fmt.Sprintf("%s starter list", business.Name),
				Description: fmt.Sprintf("Everything one member gathered to start a %s", business.Name),
				IsActive:    true,
			}
			if err := database.DB.Create(&shared).Error; err != nil {
				log.Printf("Failed to create shared listing for user %v, business %d: %v", userID, business.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share list"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"isShared":         true,
			"sharedBusinessId": shared.ID,
		})
		return
	}

	// Unshare: absence of a row is a silent no-op.
	if hasRow {
		if err := database.DB.Model(&shared).Update("is_active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unshare list"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"isShared":         false,
		"sharedBusinessId": shared.ID,
	})
}

// GetSharedListings lists the active community listings.
func GetSharedListings(c *gin.Context) {
	var listings []models.SharedBusiness
	if err := database.DB.Where("is_active = ?", true).Order("created_at desc").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	results := make([]gin.H, 0, len(listings))
	for _, listing := range listings {
		var business models.Business
		database.DB.First(&business, listing.BusinessID)
		results = append(results, gin.H{
			"id":           listing.ID,
			"name":         listing.Name,
			"description":  listing.Description,
			"businessId":   listing.BusinessID,
			"businessSlug": business.Slug,
			"viewCount":    listing.ViewCount,
			"copyCount":    listing.CopyCount,
			"createdAt":    listing.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, results)
}

func findActiveListing(id string) (*models.SharedBusiness, error) {
	var shared models.SharedBusiness
	if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&shared).Error; err != nil {
		return nil, err
	}
	return &shared, nil
}

// GetSharedListing returns listing detail and bumps the view counter as
// a side effect of the read. The increment is a SQL expression, not a
// read-modify-write, so concurrent views all land.
func GetSharedListing(c *gin.Context) {
	shared, err := findActiveListing(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if err := database.DB.Model(shared).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		// A lost view is a degraded counter, not a failed read.
		log.Printf("Failed to bump view count for listing %d: %v", shared.ID, err)
	}

	var business models.Business
	if err := database.DB.First(&business, shared.BusinessID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}

	itemsByCategory := map[string][]gin.H{}
	totalCost := float64(0)
	itemCount := 0

	var cart models.Cart
	err = database.DB.Where("user_id = ? AND business_id = ?", shared.UserID, shared.BusinessID).First(&cart).Error
	if err == nil {
		items, err := cartItemViews(database.DB, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
			return
		}
		for _, item := range items {
			category := item["category"].(string)
			itemsByCategory[category] = append(itemsByCategory[category], item)
		}
		totalCost = cart.TotalCost
		itemCount = len(items)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              shared.ID,
		"name":            shared.Name,
		"description":     shared.Description,
		"businessId":      shared.BusinessID,
		"businessName":    business.Name,
		"businessSlug":    business.Slug,
		"itemsByCategory": itemsByCategory,
		"stats": gin.H{
			"viewCount": shared.ViewCount + 1,
			"copyCount": shared.CopyCount,
			"itemCount": itemCount,
			"totalCost": totalCost,
		},
	})
}

// CopySharedListing replaces the caller's cart for the listing's
// business with a copy of the publisher's items. A copy is a replace,
// not a merge; prices come over as snapshots.
func CopySharedListing(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shared, err := findActiveListing(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var business models.Business
	if err := database.DB.First(&business, shared.BusinessID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}

	// The publisher's items. An empty or missing source cart is a
	// successful zero-item copy.
	var sourceItems []models.CartItem
	var sourceCart models.Cart
	err = database.DB.Where("user_id = ? AND business_id = ?", shared.UserID, shared.BusinessID).First(&sourceCart).Error
	if err == nil {
		if err := database.DB.Where("cart_id = ?", sourceCart.ID).Order("created_at asc").Find(&sourceItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read shared list"})
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read shared list"})
		return
	}

	destCart, err := getOrCreateCart(database.DB, userID.(uint), shared.BusinessID)
	if err != nil {
		log.Printf("Failed to get cart for user %v, business %d: %v", userID, shared.BusinessID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare your cart"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("cart_id = ?", destCart.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to copy shared list"})
		return
	}
	for _, source := range sourceItems {
		item := models.CartItem{
			CartID:          destCart.ID,
			ProductID:       source.ProductID,
			Quantity:        source.Quantity,
			UnitPrice:       source.UnitPrice,
			Category:        source.Category,
			RequirementName: source.RequirementName,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to copy item %d into cart %d: %v", source.ID, destCart.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to copy shared list"})
			return
		}
	}
	if err := recalcCartTotal(tx, destCart.ID); err != nil {
		tx.Rollback()
		log.Printf("Failed to recompute total for cart %d: %v", destCart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to copy shared list"})
		return
	}
	tx.Commit()

	if err := database.DB.Model(shared).
		UpdateColumn("copy_count", gorm.Expr("copy_count + ?", 1)).Error; err != nil {
		log.Printf("Failed to bump copy count for listing %d: %v", shared.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"newBusinessSlug": business.Slug,
		"itemsCopied":     len(sourceItems),
	})
}
