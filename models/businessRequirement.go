package models

import (
	"time"
)

// BusinessRequirement links a template to a business. Rows are
// hard-deleted on unlink (no gorm.Model soft delete) so that a later
// re-link can reuse the (business, template) unique index.
type BusinessRequirement struct {
	ID                    uint                `json:"id" gorm:"primary_key"`
	BusinessID            uint                `json:"business_id" gorm:"not null;unique_index:idx_business_template"`
	RequirementTemplateID uint                `json:"template_id" gorm:"not null;unique_index:idx_business_template"`
	RequirementTemplate   RequirementTemplate `json:"-" gorm:"foreignkey:RequirementTemplateID"`
	DescriptionOverride   *string             `json:"description_override"`
	IsActive              bool                `json:"is_active" gorm:"not null;default:true"`
	DisplayOrder          int                 `json:"display_order" gorm:"not null;default:0"`
	Source                string              `json:"source" gorm:"not null;default:'admin'"`
	CreatedAt             time.Time           `json:"created_at"`
}
