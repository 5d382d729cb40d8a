package services

import (
	"strings"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatusIDs struct {
	Open          uint
	InPreparation uint
	Partial       uint
	Closed        uint
}

// OrderService owns the order lifecycle and the line items inside each
// order. It consults the catalog for price snapshots and drives the
// table state machine through TableService on attach, transfer and
// merge.
type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	CatalogRepo *repository.CatalogRepository
	Tables      *TableService

	Tickets TicketPublisher

	locks  *LockRegistry
	Status StatusIDs
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	catalogRepo *repository.CatalogRepository,
	tables *TableService,
	locks *LockRegistry,
) *OrderService {
	s := &OrderService{DB: db, Repo: repo, CatalogRepo: catalogRepo, Tables: tables, locks: locks}

	if id, err := repo.GetStatusIDByName(entity.StatusOpen); err == nil {
		s.Status.Open = id
	}
	if id, err := repo.GetStatusIDByName(entity.StatusInPreparation); err == nil {
		s.Status.InPreparation = id
	}
	if id, err := repo.GetStatusIDByName(entity.StatusPartial); err == nil {
		s.Status.Partial = id
	}
	if id, err := repo.GetStatusIDByName(entity.StatusClosed); err == nil {
		s.Status.Closed = id
	}

	return s
}

func (s *OrderService) isTerminal(o *entity.Order) bool {
	return o.OrderStatusID == s.Status.Closed
}

// ----- DTOs from Controller -----

type CreateOrderIn struct {
	Type       string `json:"type" binding:"required"`
	TableID    *uint  `json:"tableId"`
	CustomerID *uint  `json:"customerId"`
}

type AddLineItemIn struct {
	ProductID   uint   `json:"productId" binding:"required"`
	Qty         int    `json:"qty" binding:"required"`
	ModifierIDs []uint `json:"modifierIds"`
	Note        string `json:"note"`
}

type EditLineItemIn struct {
	Qty         *int    `json:"qty"`
	ModifierIDs *[]uint `json:"modifierIds"`
	Note        *string `json:"note"`
}

type ApplyDiscountIn struct {
	Scope  string          `json:"scope" binding:"required"`
	Kind   string          `json:"kind" binding:"required"`
	Value  decimal.Decimal `json:"value"`
	CartID *uint           `json:"cartId"` // required for item scope
}

type ApplyTipIn struct {
	Kind  string          `json:"kind" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// ----- Create -----

func (s *OrderService) Create(staffID uint, in *CreateOrderIn) (*entity.Order, error) {
	switch in.Type {
	case entity.OrderTable, entity.OrderTakeaway, entity.OrderDelivery:
	default:
		return nil, apperr.Validation("unknown order type %q", in.Type)
	}
	if in.Type == entity.OrderTable && in.TableID == nil {
		return nil, apperr.Validation("table order requires a table id")
	}
	if in.Type != entity.OrderTable && in.TableID != nil {
		return nil, apperr.Validation("%s order must not reference a table", in.Type)
	}

	if in.TableID != nil {
		unlock := s.locks.Lock(tableKey(*in.TableID))
		defer unlock()
	}

	o := &entity.Order{
		Type:          in.Type,
		TableID:       in.TableID,
		CustomerID:    in.CustomerID,
		StaffID:       staffID,
		OrderStatusID: s.Status.Open,
		NextCartID:    1,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if in.TableID != nil {
			if err := s.Tables.attachOrderTx(tx, *in.TableID); err != nil {
				return err
			}
		}
		return s.Repo.CreateOrder(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ----- Line items -----

// guardLineMutation checks the order state allows touching lines at
// all. Per-line billing guards are separate.
func (s *OrderService) guardLineMutation(o *entity.Order) error {
	if s.isTerminal(o) {
		return apperr.State("order", o.ID, "order is closed")
	}
	return nil
}

func billingGuard(li *entity.CartLineItem) error {
	if li.BillingStatus == entity.BillingBilled || li.BillingStatus == entity.BillingPartiallyBilled {
		return apperr.Conflict("line_item", li.CartID, "line is %s; corrections require a credit note", li.BillingStatus)
	}
	return nil
}

func (s *OrderService) AddLineItem(orderID uint, in *AddLineItemIn) (*entity.CartLineItem, error) {
	if in.Qty <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, apperr.NotFound("order", orderID)
	}
	if err := s.guardLineMutation(o); err != nil {
		return nil, err
	}

	p, err := s.CatalogRepo.GetProduct(in.ProductID)
	if err != nil {
		return nil, apperr.NotFound("product", in.ProductID)
	}
	if len(in.ModifierIDs) > 0 {
		count, err := s.CatalogRepo.CountModifiersBelongToProduct(in.ProductID, in.ModifierIDs)
		if err != nil {
			return nil, err
		}
		if count != int64(len(in.ModifierIDs)) {
			return nil, apperr.Validation("a selected modifier does not belong to this product")
		}
	}
	mods, err := s.CatalogRepo.GetModifiersByIDs(in.ModifierIDs)
	if err != nil {
		return nil, err
	}

	// Price snapshot at add time: catalog edits after this instant do
	// not change this line.
	unit := p.BasePrice
	selections := make([]entity.LineItemSelection, 0, len(mods))
	for _, m := range mods {
		unit = unit.Add(m.PriceDelta)
		selections = append(selections, entity.LineItemSelection{ModifierID: m.ID, PriceDelta: m.PriceDelta})
	}

	var li *entity.CartLineItem
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		cartID, err := s.Repo.BumpCartID(tx, orderID)
		if err != nil {
			return err
		}
		li = &entity.CartLineItem{
			OrderID:       orderID,
			CartID:        cartID,
			ProductID:     p.ID,
			Qty:           in.Qty,
			UnitPrice:     unit,
			TaxPercent:    p.TaxRule.Percent,
			Note:          strings.TrimSpace(in.Note),
			BillingStatus: entity.BillingUnbilled,
			Selections:    selections,
		}
		return s.Repo.CreateLineItem(tx, li)
	})
	if err != nil {
		return nil, err
	}
	return li, nil
}

func (s *OrderService) RemoveLineItem(orderID, cartID uint) error {
	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return apperr.NotFound("order", orderID)
	}
	if err := s.guardLineMutation(o); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		li, err := s.Repo.GetLineItem(tx, orderID, cartID)
		if err != nil {
			return apperr.NotFound("line_item", cartID)
		}
		if err := billingGuard(li); err != nil {
			return err
		}
		return s.Repo.DeleteLineItem(tx, li)
	})
}

func (s *OrderService) EditLineItem(orderID, cartID uint, in *EditLineItemIn) (*entity.CartLineItem, error) {
	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, apperr.NotFound("order", orderID)
	}
	if err := s.guardLineMutation(o); err != nil {
		return nil, err
	}
	if in.Qty != nil && *in.Qty <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		li, err := s.Repo.GetLineItem(tx, orderID, cartID)
		if err != nil {
			return apperr.NotFound("line_item", cartID)
		}
		if err := billingGuard(li); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Qty != nil {
			updates["qty"] = *in.Qty
		}
		if in.Note != nil {
			updates["note"] = strings.TrimSpace(*in.Note)
		}

		if in.ModifierIDs != nil {
			ids := *in.ModifierIDs
			if len(ids) > 0 {
				count, err := s.CatalogRepo.CountModifiersBelongToProduct(li.ProductID, ids)
				if err != nil {
					return err
				}
				if count != int64(len(ids)) {
					return apperr.Validation("a selected modifier does not belong to this product")
				}
			}
			p, err := s.CatalogRepo.GetProduct(li.ProductID)
			if err != nil {
				return apperr.NotFound("product", li.ProductID)
			}
			mods, err := s.CatalogRepo.GetModifiersByIDs(ids)
			if err != nil {
				return err
			}
			// Changing modifiers re-snapshots the unit price at the
			// current catalog values.
			unit := p.BasePrice
			rows := make([]entity.LineItemSelection, 0, len(mods))
			for _, m := range mods {
				unit = unit.Add(m.PriceDelta)
				rows = append(rows, entity.LineItemSelection{ModifierID: m.ID, PriceDelta: m.PriceDelta})
			}
			updates["unit_price"] = unit
			updates["tax_percent"] = p.TaxRule.Percent
			if err := s.Repo.ReplaceSelections(tx, li.ID, rows); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			return s.Repo.UpdateLineItem(tx, li.ID, updates)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetLineItem(s.DB, orderID, cartID)
}

// ----- Discounts and tips -----

func validateAmount(kind string, value decimal.Decimal) error {
	if kind != entity.AmountFixed && kind != entity.AmountPercentage {
		return apperr.Validation("unknown amount kind %q", kind)
	}
	if value.IsNegative() {
		return apperr.Validation("value must not be negative")
	}
	if kind == entity.AmountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return apperr.Validation("percentage must not exceed 100")
	}
	return nil
}

func (s *OrderService) ApplyDiscount(orderID uint, in *ApplyDiscountIn) error {
	if err := validateAmount(in.Kind, in.Value); err != nil {
		return err
	}
	if in.Scope != entity.DiscountScopeOrder && in.Scope != entity.DiscountScopeItem {
		return apperr.Validation("unknown discount scope %q", in.Scope)
	}
	if in.Scope == entity.DiscountScopeItem && in.CartID == nil {
		return apperr.Validation("item-scope discount requires a cart id")
	}

	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return apperr.NotFound("order", orderID)
	}
	if s.isTerminal(o) {
		return apperr.State("order", orderID, "order is closed")
	}
	if o.DiscountScope != "" && o.DiscountScope != in.Scope {
		return apperr.Conflict("order", orderID, "order already carries a %s-scope discount", o.DiscountScope)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if in.Scope == entity.DiscountScopeOrder {
			return s.Repo.UpdateOrder(tx, orderID, map[string]any{
				"discount_scope": in.Scope,
				"discount_kind":  in.Kind,
				"discount_value": in.Value,
			})
		}
		li, err := s.Repo.GetLineItem(tx, orderID, *in.CartID)
		if err != nil {
			return apperr.NotFound("line_item", *in.CartID)
		}
		if err := billingGuard(li); err != nil {
			return err
		}
		if err := s.Repo.UpdateLineItem(tx, li.ID, map[string]any{
			"discount_kind":  in.Kind,
			"discount_value": in.Value,
		}); err != nil {
			return err
		}
		return s.Repo.UpdateOrder(tx, orderID, map[string]any{"discount_scope": in.Scope})
	})
}

// ApplyTip records the tip configuration; the amount lands in the
// totals at close.
func (s *OrderService) ApplyTip(orderID uint, in *ApplyTipIn) error {
	if err := validateAmount(in.Kind, in.Value); err != nil {
		return err
	}

	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return apperr.NotFound("order", orderID)
	}
	if s.isTerminal(o) {
		return apperr.State("order", orderID, "order is closed")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.UpdateOrder(tx, orderID, map[string]any{
			"tip_kind":  in.Kind,
			"tip_value": in.Value,
		})
	})
}

// ----- Totals -----

// Totals recomputes from the current lines. Idempotent; no cached
// amount is ever authoritative over this.
func (s *OrderService) Totals(orderID uint) (*Totals, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, apperr.NotFound("order", orderID)
	}
	items, err := s.Repo.ListLineItems(s.DB, orderID)
	if err != nil {
		return nil, err
	}
	t := ComputeTotals(o, items)
	return &t, nil
}

// ----- Credit notes -----

type CreditNoteIn struct {
	CartID uint   `json:"cartId" binding:"required"`
	Qty    int    `json:"qty" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AddCreditNote records a compensating correction against a billed
// line. The line itself is never edited.
func (s *OrderService) AddCreditNote(orderID, staffID uint, in *CreditNoteIn) (*entity.CreditNote, error) {
	if in.Qty <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	if _, err := s.Repo.GetOrder(orderID); err != nil {
		return nil, apperr.NotFound("order", orderID)
	}

	var note *entity.CreditNote
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		li, err := s.Repo.GetLineItem(tx, orderID, in.CartID)
		if err != nil {
			return apperr.NotFound("line_item", in.CartID)
		}
		if li.BillingStatus == entity.BillingUnbilled {
			return apperr.State("line_item", in.CartID, "line is unbilled; edit it directly instead")
		}
		if in.Qty > li.Qty {
			return apperr.Validation("credited quantity exceeds line quantity")
		}
		note = &entity.CreditNote{
			OrderID: orderID,
			CartID:  in.CartID,
			Qty:     in.Qty,
			Amount:  li.UnitPrice.Mul(decimal.NewFromInt(int64(in.Qty))),
			Reason:  strings.TrimSpace(in.Reason),
			StaffID: staffID,
		}
		return s.Repo.CreateCreditNote(tx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ----- Reads -----

func (s *OrderService) Detail(orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderWithItems(orderID)
	if err != nil {
		return nil, apperr.NotFound("order", orderID)
	}
	return o, nil
}

func (s *OrderService) List(statusID *uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrders(statusID, limit)
}

func (s *OrderService) CreditNotes(orderID uint) ([]entity.CreditNote, error) {
	if _, err := s.Repo.GetOrder(orderID); err != nil {
		return nil, apperr.NotFound("order", orderID)
	}
	return s.Repo.ListCreditNotes(orderID)
}
