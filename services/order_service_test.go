package services

import (
	"testing"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"
)

// seedBurger gives every order test a catalog with one taxed product.
func seedBurger(t *testing.T, env *testEnv) *entity.Product {
	t.Helper()
	rule := env.mustTaxRule(t, "standard", "10")
	cat := env.mustCategory(t, "mains")
	return env.mustProduct(t, "BURGER", "House Burger", "10.00", rule.ID, cat.ID)
}

func TestCreateOrderOccupiesTable(t *testing.T) {
	env := newTestEnv(t)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)

	env.mustTableOrder(t, tbl.ID)
	if got := env.tableState(t, tbl.ID); got != entity.TableOccupied {
		t.Fatalf("state = %s, want occupied", got)
	}

	// A second order on the same table conflicts; the state is unchanged.
	_, err := env.orders.Create(1, &CreateOrderIn{Type: entity.OrderTable, TableID: &tbl.ID})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want Conflict, got %v", err)
	}
	if got := env.tableState(t, tbl.ID); got != entity.TableOccupied {
		t.Fatalf("state = %s after failed attach, want occupied", got)
	}

	// Takeaway orders never reference a table.
	_, err = env.orders.Create(1, &CreateOrderIn{Type: entity.OrderTakeaway, TableID: &tbl.ID})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("want Validation, got %v", err)
	}
}

func TestCartIDsMonotonicAndNeverReused(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	li1, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	li2, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if li1.CartID != 1 || li2.CartID != 2 {
		t.Fatalf("cart ids = %d,%d, want 1,2", li1.CartID, li2.CartID)
	}

	if err := env.orders.RemoveLineItem(o.ID, li2.CartID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	li3, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if li3.CartID != 3 {
		t.Fatalf("cart id %d reused after removal, want 3", li3.CartID)
	}
}

func TestAddLineItemValidations(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 0}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("want Validation for zero qty, got %v", err)
	}
	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: 9999, Qty: 1}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("want NotFound for unknown product, got %v", err)
	}

	foreign, err := env.catalog.CreateModifier("oat milk", dec(t, "0.50"))
	if err != nil {
		t.Fatalf("create modifier: %v", err)
	}
	_, err = env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1, ModifierIDs: []uint{foreign.ID}})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("want Validation for foreign modifier, got %v", err)
	}
}

func TestPriceSnapshotSurvivesCatalogEdit(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	newPrice := dec(t, "99.00")
	if _, err := env.catalog.UpdateProduct(p.ID, &UpdateProductIn{BasePrice: &newPrice}); err != nil {
		t.Fatalf("update product: %v", err)
	}

	totals, err := env.orders.Totals(o.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Subtotal.Equal(dec(t, "20.00")) {
		t.Fatalf("subtotal = %s after catalog edit, want snapshot 20.00", totals.Subtotal)
	}
}

func TestRemoveBilledLineForbidden(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	li, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.orders.BillLineItems(o.ID, []uint{li.CartID}); err != nil {
		t.Fatalf("bill: %v", err)
	}

	if err := env.orders.RemoveLineItem(o.ID, li.CartID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want Conflict removing billed line, got %v", err)
	}
	if _, err := env.orders.EditLineItem(o.ID, li.CartID, &EditLineItemIn{Qty: intp(3)}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want Conflict editing billed line, got %v", err)
	}

	// The line is still there, still billed.
	detail, err := env.orders.Detail(o.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].BillingStatus != entity.BillingBilled {
		t.Fatalf("line mutated by rejected ops: %+v", detail.Items)
	}

	// The order sits in Partial now and still accepts new unbilled lines.
	if detail.OrderStatus.StatusName != entity.StatusPartial {
		t.Fatalf("status = %s, want Partial", detail.OrderStatus.StatusName)
	}
	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); err != nil {
		t.Fatalf("add to partial order: %v", err)
	}
}

func intp(v int) *int { return &v }

func TestTransferRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tblA := env.mustTable(t, area.ID, 1)
	tblB := env.mustTable(t, area.ID, 2)
	o := env.mustTableOrder(t, tblA.ID)

	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before, err := env.orders.Totals(o.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}

	if err := env.orders.Transfer(o.ID, tblA.ID, tblB.ID); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if env.tableState(t, tblA.ID) != entity.TableFree || env.tableState(t, tblB.ID) != entity.TableOccupied {
		t.Fatalf("after A->B: A=%s B=%s", env.tableState(t, tblA.ID), env.tableState(t, tblB.ID))
	}

	if err := env.orders.Transfer(o.ID, tblB.ID, tblA.ID); err != nil {
		t.Fatalf("transfer back: %v", err)
	}
	if env.tableState(t, tblA.ID) != entity.TableOccupied || env.tableState(t, tblB.ID) != entity.TableFree {
		t.Fatalf("after B->A: A=%s B=%s", env.tableState(t, tblA.ID), env.tableState(t, tblB.ID))
	}

	after, err := env.orders.Totals(o.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !after.Total.Equal(before.Total) || !after.Subtotal.Equal(before.Subtotal) {
		t.Fatalf("totals changed across transfers: %+v vs %+v", after, before)
	}
}

func TestTransferToOccupiedTableFailsAtomically(t *testing.T) {
	env := newTestEnv(t)
	area := env.mustArea(t, "main room")
	tblA := env.mustTable(t, area.ID, 1)
	tblB := env.mustTable(t, area.ID, 2)
	o := env.mustTableOrder(t, tblA.ID)
	env.mustTableOrder(t, tblB.ID)

	err := env.orders.Transfer(o.ID, tblA.ID, tblB.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want Conflict, got %v", err)
	}

	// No partial effect: the source table is still occupied by o.
	if env.tableState(t, tblA.ID) != entity.TableOccupied {
		t.Fatalf("source table state = %s, want occupied", env.tableState(t, tblA.ID))
	}
	detail, err := env.orders.Detail(o.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.TableID == nil || *detail.TableID != tblA.ID {
		t.Fatalf("order table ref = %v, want %d", detail.TableID, tblA.ID)
	}
}

func TestMergeOrders(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tblA := env.mustTable(t, area.ID, 1)
	tblB := env.mustTable(t, area.ID, 2)
	primary := env.mustTableOrder(t, tblA.ID)
	secondary := env.mustTableOrder(t, tblB.ID)

	if _, err := env.orders.AddLineItem(primary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1, Note: "rare"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.orders.AddLineItem(secondary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 2, Note: "well done"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.orders.AddLineItem(secondary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := env.orders.Merge(primary.ID, secondary.ID); err != nil {
		t.Fatalf("merge: %v", err)
	}

	detail, err := env.orders.Detail(primary.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Items) != 3 {
		t.Fatalf("primary has %d lines, want 3", len(detail.Items))
	}
	// Renumbered into primary's space, relative order preserved.
	if detail.Items[0].CartID != 1 || detail.Items[1].CartID != 2 || detail.Items[2].CartID != 3 {
		t.Fatalf("cart ids = %d,%d,%d", detail.Items[0].CartID, detail.Items[1].CartID, detail.Items[2].CartID)
	}
	if detail.Items[1].Note != "well done" || detail.Items[2].Qty != 3 {
		t.Fatalf("secondary lines out of order: %+v", detail.Items)
	}

	// Secondary is closed with the merged-into tag, its table freed.
	sec, err := env.orders.Detail(secondary.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if sec.OrderStatus.StatusName != entity.StatusClosed {
		t.Fatalf("secondary status = %s, want Closed", sec.OrderStatus.StatusName)
	}
	if sec.MergedIntoID == nil || *sec.MergedIntoID != primary.ID {
		t.Fatalf("merged-into tag = %v, want %d", sec.MergedIntoID, primary.ID)
	}
	if env.tableState(t, tblB.ID) != entity.TableFree {
		t.Fatalf("secondary table state = %s, want free", env.tableState(t, tblB.ID))
	}

	// A closed order cannot be merged again.
	if err := env.orders.Merge(primary.ID, secondary.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("want State merging closed order, got %v", err)
	}
}

func TestMergeIncompatibleDiscounts(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tblA := env.mustTable(t, area.ID, 1)
	tblB := env.mustTable(t, area.ID, 2)
	primary := env.mustTableOrder(t, tblA.ID)
	secondary := env.mustTableOrder(t, tblB.ID)

	if _, err := env.orders.AddLineItem(primary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.orders.AddLineItem(secondary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := env.orders.ApplyDiscount(primary.ID, &ApplyDiscountIn{
		Scope: entity.DiscountScopeOrder, Kind: entity.AmountPercentage, Value: dec(t, "10"),
	}); err != nil {
		t.Fatalf("discount primary: %v", err)
	}
	if err := env.orders.ApplyDiscount(secondary.ID, &ApplyDiscountIn{
		Scope: entity.DiscountScopeOrder, Kind: entity.AmountPercentage, Value: dec(t, "20"),
	}); err != nil {
		t.Fatalf("discount secondary: %v", err)
	}

	if err := env.orders.Merge(primary.ID, secondary.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want Conflict for two percentage discounts, got %v", err)
	}

	// Nothing moved.
	sec, err := env.orders.Detail(secondary.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if sec.OrderStatus.StatusName == entity.StatusClosed || len(sec.Items) != 1 {
		t.Fatalf("failed merge had side effects: %+v", sec)
	}
}

func TestMergeSumsFixedDiscounts(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tblA := env.mustTable(t, area.ID, 1)
	tblB := env.mustTable(t, area.ID, 2)
	primary := env.mustTableOrder(t, tblA.ID)
	secondary := env.mustTableOrder(t, tblB.ID)

	if _, err := env.orders.AddLineItem(primary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.orders.AddLineItem(secondary.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.orders.ApplyDiscount(primary.ID, &ApplyDiscountIn{
		Scope: entity.DiscountScopeOrder, Kind: entity.AmountFixed, Value: dec(t, "2"),
	}); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if err := env.orders.ApplyDiscount(secondary.ID, &ApplyDiscountIn{
		Scope: entity.DiscountScopeOrder, Kind: entity.AmountFixed, Value: dec(t, "3"),
	}); err != nil {
		t.Fatalf("discount: %v", err)
	}

	if err := env.orders.Merge(primary.ID, secondary.ID); err != nil {
		t.Fatalf("merge: %v", err)
	}
	totals, err := env.orders.Totals(primary.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Discount.Equal(dec(t, "5.00")) {
		t.Fatalf("merged discount = %s, want 5.00", totals.Discount)
	}
}

// Full lifecycle from the floor: seat, order, discount, tip, close.
func TestOrderLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)

	o := env.mustTableOrder(t, tbl.ID)
	if env.tableState(t, tbl.ID) != entity.TableOccupied {
		t.Fatalf("table not occupied after order creation")
	}

	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	totals, err := env.orders.Totals(o.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Subtotal.Equal(dec(t, "20.00")) || !totals.Tax.Equal(dec(t, "2.00")) || !totals.Total.Equal(dec(t, "22.00")) {
		t.Fatalf("pre-discount totals = %+v", totals)
	}

	if err := env.orders.ApplyDiscount(o.ID, &ApplyDiscountIn{
		Scope: entity.DiscountScopeOrder, Kind: entity.AmountPercentage, Value: dec(t, "10"),
	}); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if err := env.orders.ApplyTip(o.ID, &ApplyTipIn{Kind: entity.AmountPercentage, Value: dec(t, "10")}); err != nil {
		t.Fatalf("tip: %v", err)
	}

	if err := env.orders.SendToKitchen(o.ID); err != nil {
		t.Fatalf("send to kitchen: %v", err)
	}
	// Only an open order may be sent.
	if err := env.orders.SendToKitchen(o.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("want State on second send, got %v", err)
	}

	totals, err = env.orders.Totals(o.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	// 20.00 - 2.00 + 2.00 tax + 2.00 tip (10% of 20.00)
	if !totals.Discount.Equal(dec(t, "2.00")) || !totals.Tip.Equal(dec(t, "2.00")) || !totals.Total.Equal(dec(t, "22.00")) {
		t.Fatalf("final totals = %+v", totals)
	}

	// Short tender is rejected; state unchanged.
	_, err = env.payments.Close(o.ID, &CloseOrderIn{
		Tenders: []TenderIn{{Method: entity.PayCash, Amount: dec(t, "20.00")}},
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("want Validation on short tender, got %v", err)
	}
	if env.tableState(t, tbl.ID) != entity.TableOccupied {
		t.Fatalf("failed close freed the table")
	}

	// Split tender cash + card equal to the total closes the order.
	out, err := env.payments.Close(o.ID, &CloseOrderIn{
		Tenders: []TenderIn{
			{Method: entity.PayCash, Amount: dec(t, "12.00")},
			{Method: entity.PayCard, Amount: dec(t, "10.00")},
		},
	})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if out.Receipt == "" {
		t.Fatalf("close returned no receipt number")
	}
	if env.tableState(t, tbl.ID) != entity.TableFree {
		t.Fatalf("table not freed on close")
	}

	// Closed is terminal.
	if _, err := env.payments.Close(o.ID, &CloseOrderIn{
		Tenders: []TenderIn{{Method: entity.PayCash, Amount: dec(t, "22.00")}},
	}); !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("want State on double close, got %v", err)
	}
	if _, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 1}); !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("want State adding to closed order, got %v", err)
	}
}

func TestCreditNoteForBilledLine(t *testing.T) {
	env := newTestEnv(t)
	p := seedBurger(t, env)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	li, err := env.orders.AddLineItem(o.ID, &AddLineItemIn{ProductID: p.ID, Qty: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Unbilled lines are edited directly, not credited.
	if _, err := env.orders.AddCreditNote(o.ID, 1, &CreditNoteIn{CartID: li.CartID, Qty: 1, Reason: "typo"}); !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("want State for unbilled line, got %v", err)
	}

	if err := env.orders.BillLineItems(o.ID, []uint{li.CartID}); err != nil {
		t.Fatalf("bill: %v", err)
	}
	note, err := env.orders.AddCreditNote(o.ID, 1, &CreditNoteIn{CartID: li.CartID, Qty: 1, Reason: "dropped plate"})
	if err != nil {
		t.Fatalf("credit note: %v", err)
	}
	if !note.Amount.Equal(dec(t, "10.00")) {
		t.Fatalf("credit amount = %s, want 10.00", note.Amount)
	}

	// Over-crediting is rejected.
	if _, err := env.orders.AddCreditNote(o.ID, 1, &CreditNoteIn{CartID: li.CartID, Qty: 5, Reason: "too many"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("want Validation for excess qty, got %v", err)
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	env := newTestEnv(t)
	area := env.mustArea(t, "main room")
	tbl := env.mustTable(t, area.ID, 1)
	o := env.mustTableOrder(t, tbl.ID)

	cases := []struct {
		name string
		in   ApplyDiscountIn
	}{
		{"negative value", ApplyDiscountIn{Scope: entity.DiscountScopeOrder, Kind: entity.AmountFixed, Value: dec(t, "-1")}},
		{"percentage over 100", ApplyDiscountIn{Scope: entity.DiscountScopeOrder, Kind: entity.AmountPercentage, Value: dec(t, "101")}},
		{"unknown kind", ApplyDiscountIn{Scope: entity.DiscountScopeOrder, Kind: "half-off", Value: dec(t, "1")}},
		{"unknown scope", ApplyDiscountIn{Scope: "table", Kind: entity.AmountFixed, Value: dec(t, "1")}},
		{"item scope without cart id", ApplyDiscountIn{Scope: entity.DiscountScopeItem, Kind: entity.AmountFixed, Value: dec(t, "1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := env.orders.ApplyDiscount(o.ID, &tc.in); !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("want Validation, got %v", err)
			}
		})
	}
}
