package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Modifier struct {
	gorm.Model
	Name       string          `gorm:"not null" json:"name"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(12,2)" json:"priceDelta"`

	Products []Product `gorm:"many2many:product_modifiers;" json:"-"`
}
