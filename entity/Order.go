package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order types.
const (
	OrderTable    = "table"
	OrderTakeaway = "takeaway"
	OrderDelivery = "delivery"
)

// Discount scopes and kinds (tip reuses the kinds).
const (
	DiscountScopeOrder = "order"
	DiscountScopeItem  = "item"

	AmountFixed      = "fixed"
	AmountPercentage = "percentage"
)

type Order struct {
	gorm.Model
	Type string `gorm:"not null" json:"type"`

	// Set iff Type == OrderTable. Non-owning reference; occupancy is
	// derived by querying non-terminal orders against the table id.
	TableID *uint  `gorm:"index" json:"tableId,omitempty"`
	Table   *Table `json:"-"`

	CustomerID *uint     `json:"customerId,omitempty"`
	Customer   *Customer `json:"-"`

	StaffID uint `gorm:"not null" json:"staffId"`
	Staff   User `gorm:"foreignKey:StaffID" json:"-"`

	OrderStatusID uint        `gorm:"index" json:"orderStatusId"`
	OrderStatus   OrderStatus `json:"orderStatus"`

	// Order-scope discount; item-scope discounts live on the lines.
	DiscountScope string          `json:"discountScope,omitempty"`
	DiscountKind  string          `json:"discountKind,omitempty"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountValue"`

	TipKind  string          `json:"tipKind,omitempty"`
	TipValue decimal.Decimal `gorm:"type:decimal(12,2)" json:"tipValue"`

	// Cart id counter, bumped inside the same transaction that inserts
	// a line. Never reused, even after removal.
	NextCartID uint `gorm:"not null;default:1" json:"-"`

	// Set when the order was closed by merging into another order.
	MergedIntoID *uint `json:"mergedIntoId,omitempty"`

	Items       []CartLineItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments    []Payment      `json:"-"`
	CreditNotes []CreditNote   `json:"-"`
}
