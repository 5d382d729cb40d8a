package services

import (
	"testing"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func line(unit, taxPercent string, qty int) entity.CartLineItem {
	return entity.CartLineItem{UnitPrice: d(unit), TaxPercent: d(taxPercent), Qty: qty}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		order entity.Order
		items []entity.CartLineItem
		want  Totals
	}{
		{
			name:  "empty order",
			order: entity.Order{},
			want:  Totals{Subtotal: d("0"), Tax: d("0"), Discount: d("0"), Tip: d("0"), Total: d("0")},
		},
		{
			name:  "single untaxed line",
			order: entity.Order{},
			items: []entity.CartLineItem{line("4.50", "0", 2)},
			want:  Totals{Subtotal: d("9.00"), Tax: d("0"), Discount: d("0"), Tip: d("0"), Total: d("9.00")},
		},
		{
			name:  "burger scenario with order discount and tip",
			order: entity.Order{
				DiscountScope: entity.DiscountScopeOrder,
				DiscountKind:  entity.AmountPercentage,
				DiscountValue: d("10"),
				TipKind:       entity.AmountPercentage,
				TipValue:      d("10"),
			},
			items: []entity.CartLineItem{line("10.00", "10", 2)},
			want:  Totals{Subtotal: d("20.00"), Tax: d("2.00"), Discount: d("2.00"), Tip: d("2.00"), Total: d("22.00")},
		},
		{
			name:  "fixed discount and fixed tip",
			order: entity.Order{
				DiscountScope: entity.DiscountScopeOrder,
				DiscountKind:  entity.AmountFixed,
				DiscountValue: d("3"),
				TipKind:       entity.AmountFixed,
				TipValue:      d("1.50"),
			},
			items: []entity.CartLineItem{line("10.00", "10", 1)},
			want:  Totals{Subtotal: d("10.00"), Tax: d("1.00"), Discount: d("3.00"), Tip: d("1.50"), Total: d("9.50")},
		},
		{
			name:  "item-scope discounts sum per line",
			order: entity.Order{DiscountScope: entity.DiscountScopeItem},
			items: []entity.CartLineItem{
				func() entity.CartLineItem {
					li := line("8.00", "0", 1)
					li.DiscountKind = entity.AmountPercentage
					li.DiscountValue = d("50")
					return li
				}(),
				line("2.00", "0", 1),
			},
			want: Totals{Subtotal: d("10.00"), Tax: d("0"), Discount: d("4.00"), Tip: d("0"), Total: d("6.00")},
		},
		{
			name:  "discount capped at subtotal",
			order: entity.Order{
				DiscountScope: entity.DiscountScopeOrder,
				DiscountKind:  entity.AmountFixed,
				DiscountValue: d("100"),
			},
			items: []entity.CartLineItem{line("5.00", "0", 1)},
			want:  Totals{Subtotal: d("5.00"), Tax: d("0"), Discount: d("5.00"), Tip: d("0"), Total: d("0.00")},
		},
		{
			name:  "per-line tax rounding",
			order: entity.Order{},
			items: []entity.CartLineItem{
				line("0.99", "7", 1), // 0.0693 -> 0.07
				line("0.99", "7", 1),
			},
			want: Totals{Subtotal: d("1.98"), Tax: d("0.14"), Discount: d("0"), Tip: d("0"), Total: d("2.12")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(&tt.order, tt.items)
			check := func(field string, got, want decimal.Decimal) {
				if !got.Equal(want) {
					t.Errorf("%s = %s, want %s", field, got, want)
				}
			}
			check("subtotal", got.Subtotal, tt.want.Subtotal)
			check("tax", got.Tax, tt.want.Tax)
			check("discount", got.Discount, tt.want.Discount)
			check("tip", got.Tip, tt.want.Tip)
			check("total", got.Total, tt.want.Total)
		})
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	order := entity.Order{
		DiscountScope: entity.DiscountScopeOrder,
		DiscountKind:  entity.AmountPercentage,
		DiscountValue: d("12.5"),
		TipKind:       entity.AmountPercentage,
		TipValue:      d("7.33"),
	}
	items := []entity.CartLineItem{
		line("10.99", "19", 3),
		line("0.01", "7", 99),
		line("123.45", "10", 1),
	}

	first := ComputeTotals(&order, items)
	for i := 0; i < 100; i++ {
		again := ComputeTotals(&order, items)
		if again.Total.String() != first.Total.String() ||
			again.Tax.String() != first.Tax.String() ||
			again.Discount.String() != first.Discount.String() ||
			again.Tip.String() != first.Tip.String() {
			t.Fatalf("recomputation drifted on iteration %d: %+v vs %+v", i, again, first)
		}
	}
}
