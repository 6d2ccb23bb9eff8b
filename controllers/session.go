package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

func VerifyAuth(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		log.Printf("Unauthorized access attempt from IP: %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization token required",
			"code":  "MISSING_CREDENTIALS",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "User account no longer exists",
				"code":  "USER_NOT_FOUND",
			})
		} else {
			log.Printf("Database error during auth verification: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Could not verify account",
				"code":  "SERVER_ERROR",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"expires_in": time.Until(time.Unix(int64(c.MustGet("exp").(float64)), 0)),
	})
}
