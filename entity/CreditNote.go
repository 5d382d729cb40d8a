package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditNote is an append-only compensating record for lines that were
// already billed. Billed history is never edited in place.
type CreditNote struct {
	gorm.Model
	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	CartID uint            `json:"cartId"`
	Qty    int             `json:"qty"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Reason string          `json:"reason"`

	StaffID uint `json:"staffId"`
}
