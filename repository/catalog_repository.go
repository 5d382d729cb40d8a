package repository

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// ---------------- Categories ----------------

func (r *CatalogRepository) CreateCategory(c *entity.Category) error {
	return r.DB.Create(c).Error
}

func (r *CatalogRepository) CountCategoryByName(name string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Category{}).Where("name = ?", name).Count(&count).Error
	return count, err
}

// ---------------- Products ----------------

func (r *CatalogRepository) CreateProduct(tx *gorm.DB, p *entity.Product) error {
	return tx.Create(p).Error
}

func (r *CatalogRepository) GetProduct(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.Preload("TaxRule").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) GetProductByCode(code string) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.Where("code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) CountProductByCode(code string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Product{}).Where("code = ?", code).Count(&count).Error
	return count, err
}

func (r *CatalogRepository) UpdateProduct(tx *gorm.DB, id uint, updates map[string]any) error {
	return tx.Model(&entity.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (r *CatalogRepository) DeleteProduct(tx *gorm.DB, id uint) error {
	return tx.Delete(&entity.Product{}, id).Error
}

func (r *CatalogRepository) ListProducts() ([]entity.Product, error) {
	var out []entity.Product
	err := r.DB.Preload("Category").Preload("TaxRule").Preload("Modifiers").
		Order("code ASC").Find(&out).Error
	return out, err
}

// CountActiveLineRefs counts line items referencing the product inside
// orders that have not reached the given terminal status.
func (r *CatalogRepository) CountActiveLineRefs(productID, closedStatusID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.CartLineItem{}).
		Joins("JOIN orders ON orders.id = cart_line_items.order_id").
		Where("cart_line_items.product_id = ? AND orders.order_status_id <> ? AND cart_line_items.deleted_at IS NULL", productID, closedStatusID).
		Count(&count).Error
	return count, err
}

// ---------------- Modifiers ----------------

func (r *CatalogRepository) CreateModifier(m *entity.Modifier) error {
	return r.DB.Create(m).Error
}

func (r *CatalogRepository) GetModifiersByIDs(ids []uint) ([]entity.Modifier, error) {
	var out []entity.Modifier
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *CatalogRepository) AttachModifier(productID, modifierID uint) error {
	var p entity.Product
	if err := r.DB.First(&p, productID).Error; err != nil {
		return err
	}
	var m entity.Modifier
	if err := r.DB.First(&m, modifierID).Error; err != nil {
		return err
	}
	return r.DB.Model(&p).Association("Modifiers").Append(&m)
}

// CountModifiersBelongToProduct verifies membership via the join table.
func (r *CatalogRepository) CountModifiersBelongToProduct(productID uint, modifierIDs []uint) (int64, error) {
	var count int64
	err := r.DB.Table("product_modifiers").
		Where("product_id = ? AND modifier_id IN ?", productID, modifierIDs).
		Count(&count).Error
	return count, err
}

// ---------------- Tax rules ----------------

func (r *CatalogRepository) GetTaxRule(id uint) (*entity.TaxRule, error) {
	var t entity.TaxRule
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepository) GetTaxRuleByName(name string) (*entity.TaxRule, error) {
	var t entity.TaxRule
	if err := r.DB.Where("name = ?", name).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepository) GetCategoryByName(name string) (*entity.Category, error) {
	var c entity.Category
	if err := r.DB.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
