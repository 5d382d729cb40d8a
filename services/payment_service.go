package services

import (
	"log"
	"time"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptSnapshot is the finalized order handed to the document
// collaborator after a successful close.
type ReceiptSnapshot struct {
	Number   string                `json:"number"`
	OrderID  uint                  `json:"orderId"`
	Items    []entity.CartLineItem `json:"items"`
	Totals   Totals                `json:"totals"`
	Payments []entity.Payment      `json:"payments"`
	ClosedAt time.Time             `json:"closedAt"`
}

// ReceiptSink renders receipts. Emission happens after locks are
// released and is never awaited by the close path.
type ReceiptSink interface {
	Emit(r ReceiptSnapshot)
}

type logReceiptSink struct{}

func (logReceiptSink) Emit(r ReceiptSnapshot) {
	log.Printf("receipt %s: order %d total %s (%d payment(s))",
		r.Number, r.OrderID, r.Totals.Total.StringFixed(2), len(r.Payments))
}

// PaymentService validates tenders and finalizes orders. Funds movement
// itself belongs to the payment gateway collaborator; by the time this
// runs the money is in hand.
type PaymentService struct {
	DB       *gorm.DB
	Repo     *repository.PaymentRepository
	Orders   *OrderService
	Receipts ReceiptSink
}

func NewPaymentService(db *gorm.DB, repo *repository.PaymentRepository, orders *OrderService, receipts ReceiptSink) *PaymentService {
	if receipts == nil {
		receipts = logReceiptSink{}
	}
	return &PaymentService{DB: db, Repo: repo, Orders: orders, Receipts: receipts}
}

// ----- DTOs from Controller -----

type TenderIn struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type CloseOrderIn struct {
	Tenders []TenderIn `json:"tenders" binding:"required"`
}

type CloseOrderOut struct {
	OrderID uint   `json:"orderId"`
	Receipt string `json:"receipt"`
	Totals  Totals `json:"totals"`
}

// Close validates that the tendered amounts cover the computed total
// exactly (no partial payments at close; partial billing of lines is a
// separate concept), transitions the order to Closed and frees its
// table.
func (s *PaymentService) Close(orderID uint, in *CloseOrderIn) (*CloseOrderOut, error) {
	if len(in.Tenders) == 0 {
		return nil, apperr.Validation("at least one tender is required")
	}
	tendered := decimal.Zero
	for _, t := range in.Tenders {
		switch t.Method {
		case entity.PayCash, entity.PayCard:
		default:
			return nil, apperr.Validation("unknown payment method %q", t.Method)
		}
		if t.Amount.IsNegative() {
			return nil, apperr.Validation("tender amount must not be negative")
		}
		tendered = tendered.Add(t.Amount)
	}

	unlock := s.Orders.locks.Lock(orderKey(orderID))

	var out *CloseOrderOut
	var snapshot *ReceiptSnapshot
	err := func() error {
		o, err := s.Orders.Repo.GetOrder(orderID)
		if err != nil {
			return apperr.NotFound("order", orderID)
		}
		if s.Orders.isTerminal(o) {
			return apperr.State("order", orderID, "order is already closed")
		}

		items, err := s.Orders.Repo.ListLineItems(s.DB, orderID)
		if err != nil {
			return err
		}
		totals := ComputeTotals(o, items)
		if !tendered.Equal(totals.Total) {
			return apperr.Validation("tendered %s does not equal total %s",
				tendered.StringFixed(2), totals.Total.StringFixed(2))
		}

		now := time.Now()
		var payments []entity.Payment
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			affected, err := s.Orders.Repo.UpdateStatusGuard(tx, orderID, o.OrderStatusID, s.Orders.Status.Closed)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apperr.State("order", orderID, "order changed during close")
			}
			for _, t := range in.Tenders {
				p := entity.Payment{OrderID: orderID, Method: t.Method, Amount: t.Amount, PaidAt: &now}
				if err := s.Repo.Create(tx, &p); err != nil {
					return err
				}
				payments = append(payments, p)
			}
			// Every line is settled by the close.
			if err := tx.Model(&entity.CartLineItem{}).
				Where("order_id = ?", orderID).
				Update("billing_status", entity.BillingBilled).Error; err != nil {
				return err
			}
			if o.TableID != nil {
				return s.Orders.Tables.detachOrderTx(tx, *o.TableID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		number := uuid.NewString()
		snapshot = &ReceiptSnapshot{
			Number:   number,
			OrderID:  orderID,
			Items:    items,
			Totals:   totals,
			Payments: payments,
			ClosedAt: now,
		}
		out = &CloseOrderOut{OrderID: orderID, Receipt: number, Totals: totals}
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	// Outside the lock: the renderer may be slow, the engine is done.
	go s.Receipts.Emit(*snapshot)

	return out, nil
}

func (s *PaymentService) ListByOrder(orderID uint) ([]entity.Payment, error) {
	return s.Repo.ListByOrder(orderID)
}
