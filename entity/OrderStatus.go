package entity

import (
	"gorm.io/gorm"
)

// Seeded order status names.
const (
	StatusOpen          = "Open"
	StatusInPreparation = "InPreparation"
	StatusPartial       = "Partial"
	StatusClosed        = "Closed"
)

type OrderStatus struct {
	gorm.Model
	StatusName string `gorm:"uniqueIndex;not null" json:"statusName"`

	Orders []Order `json:"-"`
}
