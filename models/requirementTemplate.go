package models

import (
	"github.com/jinzhu/gorm"
)

// Necessity values a template may carry.
const (
	NecessityRequired = "Required"
	NecessityOptional = "Optional"
)

// RequirementTemplate is the canonical catalog entry. The description may
// contain the [businessName] placeholder, substituted at read time by the
// resolver; it is never persisted pre-substituted.
type RequirementTemplate struct {
	gorm.Model
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Category     string    `json:"category" gorm:"not null;index"`
	Necessity    string    `json:"necessity" gorm:"not null;default:'Required'"`
	IsDeprecated bool      `json:"is_deprecated" gorm:"default:false"`
	Products     []Product `json:"-" gorm:"foreignkey:RequirementTemplateID"`
}
