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
	"github.com/stevnathans/hustlecare-sub001/resolver"
)

// linkProjection is the link shape returned to admin screens. The
// effective description is recomputed on every read, never stored.
func linkProjection(link *models.BusinessRequirement, template *models.RequirementTemplate, businessName string, productCount int) gin.H {
	return gin.H{
		"linkId":              link.ID,
		"templateId":          template.ID,
		"name":                template.Name,
		"description":         resolver.Effective(link.DescriptionOverride, template.Description, businessName),
		"descriptionOverride": link.DescriptionOverride,
		"templateDescription": template.Description,
		"image":               template.Image,
		"category":            template.Category,
		"necessity":           template.Necessity,
		"isActive":            link.IsActive,
		"displayOrder":        link.DisplayOrder,
		"productCount":        productCount,
		"linkedAt":            link.CreatedAt,
	}
}

func productCountsByTemplate(templateIDs []uint) map[uint]int {
	counts := make(map[uint]int)
	if len(templateIDs) == 0 {
		return counts
	}
	rows, err := database.DB.Model(&models.Product{}).
		Select("requirement_template_id, count(*)").
		Where("requirement_template_id IN (?)", templateIDs).
		Group("requirement_template_id").
		Rows()
	if err != nil {
		log.Printf("Failed to count products for templates: %v", err)
		return counts
	}
	defer rows.Close()
	for rows.Next() {
		var templateID uint
		var count int
		if err := rows.Scan(&templateID, &count); err != nil {
			continue
		}
		counts[templateID] = count
	}
	return counts
}

// GetBusinessRequirements lists a business's links ordered by display
// order, then by link age.
func GetBusinessRequirements(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var links []models.BusinessRequirement
	if err := database.DB.
		Preload("RequirementTemplate").
		Where("business_id = ?", business.ID).
		Order("display_order asc, created_at asc").
		Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirements"})
		return
	}

	templateIDs := make([]uint, 0, len(links))
	for _, link := range links {
		templateIDs = append(templateIDs, link.RequirementTemplateID)
	}
	counts := productCountsByTemplate(templateIDs)

	projections := make([]gin.H, 0, len(links))
	for i := range links {
		link := &links[i]
		projections = append(projections, linkProjection(link, &link.RequirementTemplate, business.Name, counts[link.RequirementTemplateID]))
	}

	c.JSON(http.StatusOK, projections)
}

// LinkRequirement links an existing template (templateId) or authors a
// new one inline and links it. A duplicate link is reported as a 409
// carrying the existing linkId so the caller can branch into an edit
// flow instead of retrying creation.
func LinkRequirement(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var input struct {
		TemplateID  uint   `json:"templateId"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
		Category    string `json:"category"`
		Necessity   string `json:"necessity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var template models.RequirementTemplate
	wasCreated := false

	if input.TemplateID != 0 {
		if err := database.DB.First(&template, input.TemplateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Requirement not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirement"})
			}
			return
		}
	} else {
		if input.Name == "" || input.Category == "" || input.Necessity == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, category and necessity are required when creating a requirement"})
			return
		}
		if !validNecessity(input.Necessity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Necessity must be Required or Optional"})
			return
		}
		template = models.RequirementTemplate{
			Name:        input.Name,
			Description: input.Description,
			Image:       input.Image,
			Category:    input.Category,
			Necessity:   input.Necessity,
		}
		if err := database.DB.Create(&template).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create requirement"})
			return
		}
		wasCreated = true
	}

	// Deprecated templates may not gain new links. Existing links are
	// unaffected.
	if template.IsDeprecated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requirement is deprecated and cannot be linked"})
		return
	}

	var existing models.BusinessRequirement
	if err := database.DB.
		Where("business_id = ? AND requirement_template_id = ?", business.ID, template.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Requirement already linked to this business",
			"linkId": existing.ID,
		})
		return
	}

	link := models.BusinessRequirement{
		BusinessID:            business.ID,
		RequirementTemplateID: template.ID,
		IsActive:              true,
		Source:                "admin",
	}
	if err := database.DB.Create(&link).Error; err != nil {
		// A concurrent request may have won the unique index race;
		// report it the same way as an observed duplicate.
		if dbErr := database.DB.
			Where("business_id = ? AND requirement_template_id = ?", business.ID, template.ID).
			First(&existing).Error; dbErr == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Requirement already linked to this business",
				"linkId": existing.ID,
			})
			return
		}
		log.Printf("Failed to link requirement %d to business %d: %v", template.ID, business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link requirement"})
		return
	}

	var productCount int
	database.DB.Model(&models.Product{}).
		Where("requirement_template_id = ?", template.ID).
		Count(&productCount)

	projection := linkProjection(&link, &template, business.Name, productCount)
	projection["wasCreated"] = wasCreated
	c.JSON(http.StatusCreated, projection)
}

// UpdateLink partially updates a link. Binding to a raw map lets an
// explicit null for descriptionOverride clear the override while an
// absent key leaves it untouched.
func UpdateLink(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	linkID := c.Param("linkId")
	if linkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "linkId is required"})
		return
	}

	var link models.BusinessRequirement
	if err := database.DB.
		Where("id = ? AND business_id = ?", linkID, business.ID).
		First(&link).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if raw, present := input["descriptionOverride"]; present {
		if raw == nil {
			updates["description_override"] = nil
		} else if text, ok := raw.(string); ok {
			updates["description_override"] = text
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "descriptionOverride must be a string or null"})
			return
		}
	}
	if raw, present := input["isActive"]; present {
		active, ok := raw.(bool)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive must be a boolean"})
			return
		}
		updates["is_active"] = active
	}
	if raw, present := input["displayOrder"]; present {
		order, ok := raw.(float64)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "displayOrder must be a number"})
			return
		}
		updates["display_order"] = int(order)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&link).Updates(updates).Error; err != nil {
			log.Printf("Failed to update link %d: %v", link.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
			return
		}
	}

	if err := database.DB.
		Preload("RequirementTemplate").
		First(&link, link.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch link"})
		return
	}

	var productCount int
	database.DB.Model(&models.Product{}).
		Where("requirement_template_id = ?", link.RequirementTemplateID).
		Count(&productCount)

	c.JSON(http.StatusOK, linkProjection(&link, &link.RequirementTemplate, business.Name, productCount))
}

// UnlinkRequirement removes a link by linkId path param, never the
// template itself.
func UnlinkRequirement(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var link models.BusinessRequirement
	if err := database.DB.
		Preload("RequirementTemplate").
		Where("id = ? AND business_id = ?", c.Param("linkId"), business.ID).
		First(&link).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	deleteLink(c, business, &link)
}

// UnlinkRequirementByTemplate removes a link addressed by
// ?templateId= instead of link id.
func UnlinkRequirementByTemplate(c *gin.Context) {
	business, err := findBusiness(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	templateID := c.Query("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "templateId is required"})
		return
	}

	var link models.BusinessRequirement
	if err := database.DB.
		Preload("RequirementTemplate").
		Where("business_id = ? AND requirement_template_id = ?", business.ID, templateID).
		First(&link).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	deleteLink(c, business, &link)
}

func deleteLink(c *gin.Context, business *models.Business, link *models.BusinessRequirement) {
	if err := database.DB.Delete(link).Error; err != nil {
		log.Printf("Failed to unlink requirement %d from business %d: %v", link.RequirementTemplateID, business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink requirement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Unlinked %q from %s", link.RequirementTemplate.Name, business.Name),
	})
}

// GetRequirementBusinesses lists the businesses a template is linked to,
// oldest link first.
func GetRequirementBusinesses(c *gin.Context) {
	var template models.RequirementTemplate
	if err := database.DB.First(&template, c.Param("id")).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var links []models.BusinessRequirement
	if err := database.DB.
		Where("requirement_template_id = ?", template.ID).
		Order("created_at asc").
		Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}

	businessIDs := make([]uint, 0, len(links))
	for _, link := range links {
		businessIDs = append(businessIDs, link.BusinessID)
	}
	businesses := make(map[uint]models.Business)
	if len(businessIDs) > 0 {
		var rows []models.Business
		if err := database.DB.Where("id IN (?)", businessIDs).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
			return
		}
		for _, b := range rows {
			businesses[b.ID] = b
		}
	}

	results := make([]gin.H, 0, len(links))
	for _, link := range links {
		business := businesses[link.BusinessID]
		results = append(results, gin.H{
			"linkId":              link.ID,
			"businessId":          link.BusinessID,
			"businessName":        business.Name,
			"businessSlug":        business.Slug,
			"descriptionOverride": link.DescriptionOverride,
			"isActive":            link.IsActive,
			"displayOrder":        link.DisplayOrder,
			"linkedAt":            link.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, results)
}

// BulkLinkRequirement links one template to many businesses. Each
// business gets its own outcome; the batch never rolls back siblings.
func BulkLinkRequirement(c *gin.Context) {
	var template models.RequirementTemplate
	if err := database.DB.First(&template, c.Param("id")).Error; err != nil {
		handleRequirementError(c, err)
		return
	}

	var input struct {
		BusinessIDs []uint `json:"businessIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.BusinessIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessIds must not be empty"})
		return
	}

	if template.IsDeprecated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requirement is deprecated and cannot be linked"})
		return
	}

	results := make([]gin.H, 0, len(input.BusinessIDs))
	linked, duplicates, failed := 0, 0, 0

	for _, businessID := range input.BusinessIDs {
		var business models.Business
		if err := database.DB.First(&business, businessID).Error; err != nil {
			results = append(results, gin.H{
				"businessId": businessID,
				"status":     "failed",
				"reason":     "business not found",
			})
			failed++
			continue
		}

		var existing models.BusinessRequirement
		if err := database.DB.
			Where("business_id = ? AND requirement_template_id = ?", businessID, template.ID).
			First(&existing).Error; err == nil {
			results = append(results, gin.H{
				"businessId": businessID,
				"status":     "duplicate",
				"linkId":     existing.ID,
			})
			duplicates++
			continue
		}

		link := models.BusinessRequirement{
			BusinessID:            businessID,
			RequirementTemplateID: template.ID,
			IsActive:              true,
			Source:                "admin",
		}
		if err := database.DB.Create(&link).Error; err != nil {
			log.Printf("Bulk link failed for business %d, template %d: %v", businessID, template.ID, err)
			results = append(results, gin.H{
				"businessId": businessID,
				"status":     "failed",
				"reason":     "could not create link",
			})
			failed++
			continue
		}

		results = append(results, gin.H{
			"businessId": businessID,
			"status":     "linked",
			"linkId":     link.ID,
		})
		linked++
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"summary": gin.H{
			"total":      len(input.BusinessIDs),
			"linked":     linked,
			"duplicates": duplicates,
			"failed":     failed,
		},
	})
}
