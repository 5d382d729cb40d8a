package entity

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	Name  string `gorm:"not null" json:"name"`
	Phone string `json:"phone"`

	Orders []Order `json:"-"`
}
