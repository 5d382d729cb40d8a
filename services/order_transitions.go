// services/order_transitions.go
package services

import (
	"log"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"

	"gorm.io/gorm"
)

// KitchenTicket is what the kitchen/bar collaborator receives when an
// order is sent to preparation.
type KitchenTicket struct {
	OrderID uint             `json:"orderId"`
	Type    string           `json:"type"`
	TableID *uint            `json:"tableId,omitempty"`
	Lines   []KitchenTicketLine `json:"lines"`
}

type KitchenTicketLine struct {
	CartID  uint   `json:"cartId"`
	Product string `json:"product"`
	Qty     int    `json:"qty"`
	Note    string `json:"note,omitempty"`
}

// TicketPublisher is the external ticketing collaborator. Publishing
// happens after locks and transactions are released; the engine never
// blocks on it.
type TicketPublisher interface {
	PublishTicket(t KitchenTicket)
}

// ----- Lifecycle transitions -----

// SendToKitchen moves Open -> InPreparation and notifies the ticketing
// collaborator.
func (s *OrderService) SendToKitchen(orderID uint) error {
	unlock := s.locks.Lock(orderKey(orderID))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, orderID, s.Status.Open, s.Status.InPreparation)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := s.Repo.GetOrder(orderID); err != nil {
				return apperr.NotFound("order", orderID)
			}
			return apperr.State("order", orderID, "only an open order can be sent to the kitchen")
		}
		return nil
	})
	unlock()
	if err != nil {
		return err
	}

	if s.Tickets != nil {
		o, err := s.Repo.GetOrderWithItems(orderID)
		if err != nil {
			log.Printf("ticket snapshot failed for order %d: %v", orderID, err)
			return nil
		}
		ticket := KitchenTicket{OrderID: o.ID, Type: o.Type, TableID: o.TableID}
		for _, li := range o.Items {
			name := ""
			if p, err := s.CatalogRepo.GetProduct(li.ProductID); err == nil {
				name = p.Name
			}
			ticket.Lines = append(ticket.Lines, KitchenTicketLine{
				CartID: li.CartID, Product: name, Qty: li.Qty, Note: li.Note,
			})
		}
		s.Tickets.PublishTicket(ticket)
	}
	return nil
}

// BillLineItems marks the given lines billed. While unbilled lines
// remain the order sits in Partial; once every line is billed it stays
// Partial until the payment close.
func (s *OrderService) BillLineItems(orderID uint, cartIDs []uint) error {
	if len(cartIDs) == 0 {
		return apperr.Validation("at least one cart id is required")
	}

	unlock := s.locks.Lock(orderKey(orderID))
	defer unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrderTx(tx, orderID)
		if err != nil {
			return apperr.NotFound("order", orderID)
		}
		if s.isTerminal(o) {
			return apperr.State("order", orderID, "order is closed")
		}
		for _, cartID := range cartIDs {
			li, err := s.Repo.GetLineItem(tx, orderID, cartID)
			if err != nil {
				return apperr.NotFound("line_item", cartID)
			}
			if li.BillingStatus == entity.BillingBilled {
				return apperr.Conflict("line_item", cartID, "line is already billed")
			}
			if err := s.Repo.UpdateLineItem(tx, li.ID, map[string]any{"billing_status": entity.BillingBilled}); err != nil {
				return err
			}
		}
		if o.OrderStatusID != s.Status.Partial {
			if _, err := s.Repo.UpdateStatusGuard(tx, orderID, o.OrderStatusID, s.Status.Partial); err != nil {
				return err
			}
		}
		return nil
	})
}

// Transfer moves the order from one table to another atomically: on any
// failure neither table changes. Both table locks are taken in a fixed
// global order.
func (s *OrderService) Transfer(orderID, fromTableID, toTableID uint) error {
	if fromTableID == toTableID {
		return apperr.Validation("source and destination tables are the same")
	}

	unlock := s.locks.LockAll(orderKey(orderID), tableKey(fromTableID), tableKey(toTableID))
	defer unlock()

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return apperr.NotFound("order", orderID)
	}
	if s.isTerminal(o) {
		return apperr.State("order", orderID, "order is closed")
	}
	if o.TableID == nil || *o.TableID != fromTableID {
		return apperr.Conflict("order", orderID, "order is not attached to table %d", fromTableID)
	}

	// Single transaction: detach + attach + reference update roll back
	// together.
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Tables.detachOrderTx(tx, fromTableID); err != nil {
			return err
		}
		if err := s.Tables.attachOrderTx(tx, toTableID); err != nil {
			return err
		}
		return s.Repo.UpdateOrder(tx, orderID, map[string]any{"table_id": toTableID})
	})
}

// Merge folds secondary into primary: secondary's lines are appended in
// their original relative order with fresh cart ids from primary's
// numbering space, and secondary closes with a merged-into tag (not a
// payment close).
func (s *OrderService) Merge(primaryID, secondaryID uint) error {
	if primaryID == secondaryID {
		return apperr.Validation("cannot merge an order into itself")
	}

	unlock := s.locks.LockAll(orderKey(primaryID), orderKey(secondaryID))
	defer unlock()

	primary, err := s.Repo.GetOrder(primaryID)
	if err != nil {
		return apperr.NotFound("order", primaryID)
	}
	secondary, err := s.Repo.GetOrder(secondaryID)
	if err != nil {
		return apperr.NotFound("order", secondaryID)
	}
	if s.isTerminal(primary) {
		return apperr.State("order", primaryID, "order is closed")
	}
	if s.isTerminal(secondary) {
		return apperr.State("order", secondaryID, "order is closed")
	}

	mergedDiscount, err := mergeDiscounts(primary, secondary)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		items, err := s.Repo.ListLineItems(tx, secondaryID)
		if err != nil {
			return err
		}
		for _, li := range items {
			cartID, err := s.Repo.BumpCartID(tx, primaryID)
			if err != nil {
				return err
			}
			rows := make([]entity.LineItemSelection, len(li.Selections))
			for i, sel := range li.Selections {
				rows[i] = entity.LineItemSelection{ModifierID: sel.ModifierID, PriceDelta: sel.PriceDelta}
			}
			moved := &entity.CartLineItem{
				OrderID:       primaryID,
				CartID:        cartID,
				ProductID:     li.ProductID,
				Qty:           li.Qty,
				UnitPrice:     li.UnitPrice,
				TaxPercent:    li.TaxPercent,
				Note:          li.Note,
				BillingStatus: li.BillingStatus,
				DiscountKind:  li.DiscountKind,
				DiscountValue: li.DiscountValue,
				Selections:    rows,
			}
			if err := s.Repo.CreateLineItem(tx, moved); err != nil {
				return err
			}
		}

		if mergedDiscount != nil {
			if err := s.Repo.UpdateOrder(tx, primaryID, mergedDiscount); err != nil {
				return err
			}
		}

		// Secondary closes tagged as merged, table freed if it had one.
		if secondary.TableID != nil {
			if err := s.Tables.detachOrderTx(tx, *secondary.TableID); err != nil {
				return err
			}
		}
		affected, err := s.Repo.UpdateStatusGuard(tx, secondaryID, secondary.OrderStatusID, s.Status.Closed)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("order", secondaryID, "order changed during merge")
		}
		return s.Repo.UpdateOrder(tx, secondaryID, map[string]any{"merged_into_id": primaryID})
	})
}

// mergeDiscounts decides whether the two orders' discounts can coexist.
// Item-scope discounts travel with their lines and never conflict; at
// most one order-scope discount may survive, except two fixed ones
// which sum. Anything else needs manual resolution.
func mergeDiscounts(primary, secondary *entity.Order) (map[string]any, error) {
	p, sec := primary.DiscountScope, secondary.DiscountScope

	switch {
	case sec == "":
		return nil, nil
	case p == "":
		// Primary adopts secondary's discount wholesale.
		return map[string]any{
			"discount_scope": sec,
			"discount_kind":  secondary.DiscountKind,
			"discount_value": secondary.DiscountValue,
		}, nil
	case p == entity.DiscountScopeItem && sec == entity.DiscountScopeItem:
		// Line discounts travel with their lines.
		return nil, nil
	case p == entity.DiscountScopeOrder && sec == entity.DiscountScopeOrder &&
		primary.DiscountKind == entity.AmountFixed && secondary.DiscountKind == entity.AmountFixed:
		return map[string]any{
			"discount_value": primary.DiscountValue.Add(secondary.DiscountValue),
		}, nil
	default:
		return nil, apperr.Conflict("order", secondary.ID,
			"incompatible discounts (%s/%s vs %s/%s); resolve manually before merging",
			p, primary.DiscountKind, sec, secondary.DiscountKind)
	}
}
