package models

import (
	"github.com/jinzhu/gorm"
)

type Product struct {
	gorm.Model
	RequirementTemplateID uint    `json:"template_id" gorm:"not null;index"`
	Name                  string  `json:"name" gorm:"not null"`
	Description           string  `json:"description"`
	Price                 float64 `json:"price" gorm:"not null"`
	Image                 string  `json:"image"`
	Category              string  `json:"category"`
}
