package services

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"github.com/shopspring/decimal"
)

// Totals is the derived arithmetic of an order. It is recomputed from
// the line items on demand and never stored as a source of truth.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives subtotal, tax, discount, tip and net total for
// the order. Pure: same lines, discount and tip always give
// bit-identical results. Every derived amount is rounded half-up to two
// places at the point it is derived, so repeated recomputation cannot
// drift.
//
// Discount applies before tip but does not shrink the tax base; a
// percentage tip is taken on (subtotal - discount + tax).
func ComputeTotals(o *entity.Order, items []entity.CartLineItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	itemDiscount := decimal.Zero

	for _, li := range items {
		line := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Qty)))
		subtotal = subtotal.Add(line)
		tax = tax.Add(line.Mul(li.TaxPercent).Div(hundred).Round(2))

		if li.DiscountKind != "" {
			itemDiscount = itemDiscount.Add(amountOf(li.DiscountKind, li.DiscountValue, line))
		}
	}

	discount := decimal.Zero
	switch o.DiscountScope {
	case entity.DiscountScopeOrder:
		discount = amountOf(o.DiscountKind, o.DiscountValue, subtotal)
	case entity.DiscountScopeItem:
		discount = itemDiscount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	tip := decimal.Zero
	if o.TipKind != "" {
		tip = amountOf(o.TipKind, o.TipValue, subtotal.Sub(discount).Add(tax))
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Tip:      tip,
		Total:    subtotal.Sub(discount).Add(tax).Add(tip),
	}
}

func amountOf(kind string, value, base decimal.Decimal) decimal.Decimal {
	if kind == entity.AmountPercentage {
		return base.Mul(value).Div(hundred).Round(2)
	}
	return value.Round(2)
}
