package models

import "github.com/jinzhu/gorm"

type Business struct {
	gorm.Model
	Name         string                `json:"name" gorm:"not null;unique"`
	Slug         string                `json:"slug" gorm:"not null;unique_index"`
	Requirements []BusinessRequirement `json:"-" gorm:"foreignkey:BusinessID"`
	Carts        []*Cart               `json:"-" gorm:"foreignkey:BusinessID"`
}
