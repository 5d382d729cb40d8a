package repository

import (
	"time"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderTx(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderWithItems(orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_line_items.cart_id ASC")
	}).Preload("Items.Selections").Preload("OrderStatus").First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetStatusIDByName(name string) (uint, error) {
	var st entity.OrderStatus
	if err := r.DB.Where("status_name = ?", name).First(&st).Error; err != nil {
		return 0, err
	}
	return st.ID, nil
}

// UpdateStatusGuard moves the order from one status to another only if
// it is still in the expected status; 0 affected rows means a concurrent
// transition or an invalid source state.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID, fromStatusID, toStatusID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status_id = ?", orderID, fromStatusID).
		Update("order_status_id", toStatusID)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) UpdateOrder(tx *gorm.DB, orderID uint, updates map[string]any) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

type OrderSummary struct {
	ID            uint       `json:"id"`
	Type          string     `json:"type"`
	TableID       *uint      `json:"tableId,omitempty"`
	OrderStatusID uint       `json:"orderStatusId"`
	StaffID       uint       `json:"staffId"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (r *OrderRepository) ListOrders(statusID *uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Model(&entity.Order{}).
		Select("id, type, table_id, order_status_id, staff_id, created_at")
	if statusID != nil {
		q = q.Where("order_status_id = ?", *statusID)
	}
	var out []OrderSummary
	err := q.Order("id DESC").Limit(limit).Scan(&out).Error
	return out, err
}

// ---------------- Line items ----------------

func (r *OrderRepository) CreateLineItem(tx *gorm.DB, li *entity.CartLineItem) error {
	return tx.Create(li).Error
}

func (r *OrderRepository) GetLineItem(tx *gorm.DB, orderID, cartID uint) (*entity.CartLineItem, error) {
	var li entity.CartLineItem
	err := tx.Preload("Selections").
		Where("order_id = ? AND cart_id = ?", orderID, cartID).First(&li).Error
	if err != nil {
		return nil, err
	}
	return &li, nil
}

func (r *OrderRepository) ListLineItems(tx *gorm.DB, orderID uint) ([]entity.CartLineItem, error) {
	var out []entity.CartLineItem
	err := tx.Preload("Selections").
		Where("order_id = ?", orderID).Order("cart_id ASC").Find(&out).Error
	return out, err
}

func (r *OrderRepository) UpdateLineItem(tx *gorm.DB, id uint, updates map[string]any) error {
	return tx.Model(&entity.CartLineItem{}).Where("id = ?", id).Updates(updates).Error
}

func (r *OrderRepository) DeleteLineItem(tx *gorm.DB, li *entity.CartLineItem) error {
	if err := tx.Where("cart_line_item_id = ?", li.ID).Delete(&entity.LineItemSelection{}).Error; err != nil {
		return err
	}
	return tx.Delete(li).Error
}

func (r *OrderRepository) ReplaceSelections(tx *gorm.DB, lineItemID uint, rows []entity.LineItemSelection) error {
	if err := tx.Where("cart_line_item_id = ?", lineItemID).Delete(&entity.LineItemSelection{}).Error; err != nil {
		return err
	}
	for i := range rows {
		rows[i].CartLineItemID = lineItemID
		if err := tx.Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// BumpCartID reserves the next cart id for the order. Runs inside the
// caller's transaction so concurrent adds cannot hand out the same id.
func (r *OrderRepository) BumpCartID(tx *gorm.DB, orderID uint) (uint, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return 0, err
	}
	next := o.NextCartID
	if err := tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("next_cart_id", next+1).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// ---------------- Credit notes ----------------

func (r *OrderRepository) CreateCreditNote(tx *gorm.DB, n *entity.CreditNote) error {
	return tx.Create(n).Error
}

func (r *OrderRepository) ListCreditNotes(orderID uint) ([]entity.CreditNote, error) {
	var out []entity.CreditNote
	err := r.DB.Where("order_id = ?", orderID).Order("id ASC").Find(&out).Error
	return out, err
}
