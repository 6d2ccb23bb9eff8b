package models

import "github.com/jinzhu/gorm"

// Cart is a user's per-business shopping list. TotalCost is derived from
// the items but persisted; it is recomputed from the full item set after
// every mutation, never incremented in place.
type Cart struct {
	gorm.Model
	Name       string     `json:"name"`
	UserID     uint       `json:"user_id" gorm:"not null;unique_index:idx_user_business"`
	BusinessID uint       `json:"business_id" gorm:"not null;unique_index:idx_user_business"`
	TotalCost  float64    `json:"total_cost" gorm:"not null;default:0"`
	Items      []CartItem `json:"-" gorm:"foreignkey:CartID"`
}
