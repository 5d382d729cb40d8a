package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods accepted at close.
const (
	PayCash = "cash"
	PayCard = "card"
)

type Payment struct {
	gorm.Model
	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	Method string          `gorm:"not null" json:"method"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
}
