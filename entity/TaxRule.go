package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaxRule struct {
	gorm.Model
	Name    string          `gorm:"uniqueIndex;not null" json:"name"`
	Percent decimal.Decimal `gorm:"type:decimal(5,2)" json:"percent"`

	Products []Product `json:"-"`
}
