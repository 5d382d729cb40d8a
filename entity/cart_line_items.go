package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Billing statuses for a line.
const (
	BillingUnbilled        = "unbilled"
	BillingPartiallyBilled = "partially_billed"
	BillingBilled          = "billed"
)

type CartLineItem struct {
	gorm.Model
	OrderID uint  `gorm:"index:idx_order_cart,unique" json:"orderId"`
	Order   Order `json:"-"`

	// CartID is unique within its order only, assigned from the order's
	// monotonic counter so references stay stable on receipts.
	CartID uint `gorm:"index:idx_order_cart,unique" json:"cartId"`

	ProductID uint    `gorm:"index" json:"productId"`
	Product   Product `json:"-"` // preload when the receipt needs names

	Qty int `json:"qty"`

	// Snapshots taken at add time: later catalog edits never alter
	// historical totals.
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"unitPrice"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(5,2)" json:"taxPercent"`

	Note          string `json:"note"`
	BillingStatus string `gorm:"not null;default:unbilled" json:"billingStatus"`

	// Item-scope discount, when one was applied to this line.
	DiscountKind  string          `json:"discountKind,omitempty"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountValue"`

	Selections []LineItemSelection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"selections"`
}

// LineItemSelection records one chosen modifier with its delta at the
// time of selection.
type LineItemSelection struct {
	gorm.Model
	CartLineItemID uint `json:"-"`

	ModifierID uint     `json:"modifierId"`
	Modifier   Modifier `json:"-"`

	PriceDelta decimal.Decimal `gorm:"type:decimal(12,2)" json:"priceDelta"`
}
