package models

import (
	"time"
)

// Snapshot label defaults applied when the caller supplies none.
const (
	DefaultCategory        = "Uncategorized"
	DefaultRequirementName = "Unspecified Requirement"
)

// CartItem stores unit price, category and requirement name as snapshots
// taken at add time. Later catalog edits never relabel or reprice a row.
// Rows are hard-deleted so a removed product can be re-added under the
// (cart, product) unique index.
type CartItem struct {
	ID              uint      `json:"id" gorm:"primary_key"`
	CartID          uint      `json:"cart_id" gorm:"not null;unique_index:idx_cart_product"`
	ProductID       uint      `json:"product_id" gorm:"not null;unique_index:idx_cart_product"`
	Quantity        int       `json:"quantity" gorm:"not null;default:1"`
	UnitPrice       float64   `json:"unit_price" gorm:"not null"`
	Category        string    `json:"category" gorm:"not null"`
	RequirementName string    `json:"requirement_name" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}
