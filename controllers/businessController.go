package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/jinzhu/gorm"
	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

// CreateBusiness - adds a directory entry. Admin only via routes.
func CreateBusiness(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	businessSlug := slug.Make(input.Name)

	var existing models.Business
	if err := database.DB.Where("name = ? OR slug = ?", input.Name, businessSlug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Business already exists"})
		return
	}

	business := models.Business{
		Name: input.Name,
		Slug: businessSlug,
	}
	if err := database.DB.Create(&business).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}

	c.JSON(http.StatusCreated, business)
}

func GetBusinesses(c *gin.Context) {
	var businesses []models.Business
	if err := database.DB.Order("name asc").Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
		return
	}
	c.JSON(http.StatusOK, businesses)
}

// GetBusiness resolves a business by numeric id or by slug.
func GetBusiness(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch business"})
		}
		return
	}

	var linkCount int
	database.DB.Model(&models.BusinessRequirement{}).
		Where("business_id = ?", business.ID).
		Count(&linkCount)

	c.JSON(http.StatusOK, gin.H{
		"id":               business.ID,
		"name":             business.Name,
		"slug":             business.Slug,
		"requirementCount": linkCount,
	})
}

func findBusiness(idOrSlug string) (*models.Business, error) {
	var business models.Business
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		if err := database.DB.First(&business, uint(id)).Error; err != nil {
			return nil, err
		}
		return &business, nil
	}
	if err := database.DB.Where("slug = ?", idOrSlug).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}
