package models

import "github.com/jinzhu/gorm"

// SharedBusiness is a publication of a user's cart for one business.
// Unsharing deactivates the row instead of deleting it, so the view and
// copy counters survive a republish.
type SharedBusiness struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"not null;index:idx_shared_user_business"`
	BusinessID  uint   `json:"business_id" gorm:"not null;index:idx_shared_user_business"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true"`
	ViewCount   uint   `json:"view_count" gorm:"not null;default:0"`
	CopyCount   uint   `json:"copy_count" gorm:"not null;default:0"`
}
