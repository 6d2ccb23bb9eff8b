package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

func handleRequirementError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Requirement not found"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirement"})
	}
}

func validNecessity(necessity string) bool {
	return necessity == models.NecessityRequired || necessity == models.NecessityOptional
}

func CreateRequirement(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Image       string `json:"image"`
		Category    string `json:"category" binding:"required"`
		Necessity   string `json:"necessity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validNecessity(input.Necessity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Necessity must be Required or Optional"})
		return
	}

	requirement := models.RequirementTemplate{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Category:    input.Category,
		Necessity:   input.Necessity,
	}
	if err := database.DB.Create(&requirement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create requirement"})
		return
	}

	c.JSON(http.StatusCreated, requirement)
}

func GetRequirements(c *gin.Context) {
	query := database.DB.Model(&models.RequirementTemplate{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("includeDeprecated") != "true" {
		query = query.Where("is_deprecated = ?", false)
	}

	var requirements []models.RequirementTemplate
	if err := query.Order("name asc").Find(&requirements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirements"})
		return
	}
	c.JSON(http.StatusOK, requirements)
}

func GetRequirement(c *gin.Context) {
	id := c.Param("id")
	var requirement models.RequirementTemplate
	if err := database.DB.First(&requirement, id).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var productCount, linkCount int
	database.DB.Model(&models.Product{}).
		Where("requirement_template_id = ?", requirement.ID).
		Count(&productCount)
	database.DB.Model(&models.BusinessRequirement{}).
		Where("requirement_template_id = ?", requirement.ID).
		Count(&linkCount)

	c.JSON(http.StatusOK, gin.H{
		"requirement":  requirement,
		"productCount": productCount,
		"linkCount":    linkCount,
	})
}

// UpdateRequirement edits catalog fields. Deprecation has its own
// endpoint and cannot be toggled here.
func UpdateRequirement(c *gin.Context) {
	id := c.Param("id")
	var requirement models.RequirementTemplate
	if err := database.DB.First(&requirement, id).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
		Category    *string `json:"category"`
		Necessity   *string `json:"necessity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Necessity != nil {
		if !validNecessity(*input.Necessity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Necessity must be Required or Optional"})
			return
		}
		updates["necessity"] = *input.Necessity
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&requirement).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update requirement"})
			return
		}
	}

	c.JSON(http.StatusOK, requirement)
}

// DeprecateRequirement sets the one-way deprecation flag. Existing links
// are untouched; only new links are blocked.
func DeprecateRequirement(c *gin.Context) {
	id := c.Param("id")
	var requirement models.RequirementTemplate
	if err := database.DB.First(&requirement, id).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	if requirement.IsDeprecated {
		c.JSON(http.StatusOK, gin.H{"message": "Requirement already deprecated"})
		return
	}

	if err := database.DB.Model(&requirement).Update("is_deprecated", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deprecate requirement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requirement deprecated"})
}

func CreateProduct(c *gin.Context) {
	id := c.Param("id")
	var requirement models.RequirementTemplate
	if err := database.DB.First(&requirement, id).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Image       string  `json:"image"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Category == "" {
		input.Category = requirement.Category
	}

	product := models.Product{
		RequirementTemplateID: requirement.ID,
		Name:                  input.Name,
		Description:           input.Description,
		Price:                 input.Price,
		Image:                 input.Image,
		Category:              input.Category,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func GetProducts(c *gin.Context) {
	id := c.Param("id")
	var requirement models.RequirementTemplate
	if err := database.DB.First(&requirement, id).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var products []models.Product
	if err := database.DB.
		Where("requirement_template_id = ?", requirement.ID).
		Order("price asc").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}
