package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Availability windows.
const (
	AvailabilityAny       = "any"
	AvailabilityBreakfast = "breakfast"
	AvailabilityLunch     = "lunch"
	AvailabilityDinner    = "dinner"
)

type Product struct {
	gorm.Model
	// Code is the staff-facing product id, unique within the restaurant.
	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"` // preload only on detail

	BasePrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"basePrice"`

	TaxRuleID uint    `json:"taxRuleId"`
	TaxRule   TaxRule `json:"-"`

	Availability string `gorm:"not null;default:any" json:"availability"`

	Modifiers []Modifier `gorm:"many2many:product_modifiers;" json:"modifiers"`
}
