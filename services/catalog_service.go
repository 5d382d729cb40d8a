package services

import (
	"strings"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogService struct {
	DB   *gorm.DB
	Repo *repository.CatalogRepository

	// OrderStatus lookup, needed for the delete-in-use guard.
	closedStatusID uint
}

func NewCatalogService(db *gorm.DB, repo *repository.CatalogRepository, orderRepo *repository.OrderRepository) *CatalogService {
	s := &CatalogService{DB: db, Repo: repo}
	if id, err := orderRepo.GetStatusIDByName(entity.StatusClosed); err == nil {
		s.closedStatusID = id
	}
	return s
}

// ----- DTOs from Controller -----

type CreateProductIn struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	CategoryID   uint            `json:"categoryId" binding:"required"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	TaxRuleID    uint            `json:"taxRuleId" binding:"required"`
	Availability string          `json:"availability"`
	ModifierIDs  []uint          `json:"modifierIds"`
}

type UpdateProductIn struct {
	Name         *string          `json:"name"`
	CategoryID   *uint            `json:"categoryId"`
	BasePrice    *decimal.Decimal `json:"basePrice"`
	TaxRuleID    *uint            `json:"taxRuleId"`
	Availability *string          `json:"availability"`
}

func (s *CatalogService) CreateCategory(name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	count, err := s.Repo.CountCategoryByName(name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.DuplicateKey("category", "category %q already exists", name)
	}
	c := &entity.Category{Name: name}
	if err := s.Repo.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) CreateProduct(in *CreateProductIn) (*entity.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" {
		return nil, apperr.Validation("product code is required")
	}
	if in.BasePrice.IsNegative() {
		return nil, apperr.Validation("base price must not be negative")
	}
	count, err := s.Repo.CountProductByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.DuplicateKey("product", "product code %q already exists", in.Code)
	}

	availability := in.Availability
	if availability == "" {
		availability = entity.AvailabilityAny
	}

	mods, err := s.Repo.GetModifiersByIDs(in.ModifierIDs)
	if err != nil {
		return nil, err
	}
	if len(mods) != len(in.ModifierIDs) {
		return nil, apperr.Validation("unknown modifier id")
	}

	p := &entity.Product{
		Code:         in.Code,
		Name:         strings.TrimSpace(in.Name),
		CategoryID:   in.CategoryID,
		BasePrice:    in.BasePrice,
		TaxRuleID:    in.TaxRuleID,
		Availability: availability,
		Modifiers:    mods,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.CreateProduct(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(id uint, in *UpdateProductIn) (*entity.Product, error) {
	if _, err := s.Repo.GetProduct(id); err != nil {
		return nil, apperr.NotFound("product", id)
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			return nil, apperr.Validation("base price must not be negative")
		}
		updates["base_price"] = *in.BasePrice
	}
	if in.TaxRuleID != nil {
		updates["tax_rule_id"] = *in.TaxRuleID
	}
	if in.Availability != nil {
		updates["availability"] = *in.Availability
	}
	if len(updates) > 0 {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Repo.UpdateProduct(tx, id, updates)
		})
		if err != nil {
			return nil, err
		}
	}
	return s.Repo.GetProduct(id)
}

// DeleteProduct refuses while any non-terminal order still references
// the product from a line item.
func (s *CatalogService) DeleteProduct(id uint) error {
	if _, err := s.Repo.GetProduct(id); err != nil {
		return apperr.NotFound("product", id)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		refs, err := s.Repo.CountActiveLineRefs(id, s.closedStatusID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("product", id, "cannot delete: %d active order line(s) reference this product", refs)
		}
		return s.Repo.DeleteProduct(tx, id)
	})
}

func (s *CatalogService) CreateModifier(name string, priceDelta decimal.Decimal) (*entity.Modifier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("modifier name is required")
	}
	if priceDelta.IsNegative() {
		return nil, apperr.Validation("price delta must not be negative")
	}
	m := &entity.Modifier{Name: name, PriceDelta: priceDelta}
	if err := s.Repo.CreateModifier(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) AttachModifier(productID, modifierID uint) error {
	return s.Repo.AttachModifier(productID, modifierID)
}

// LookupPrice returns base price + sum of selected modifier deltas.
// A modifier not attached to the product is a NotFound.
func (s *CatalogService) LookupPrice(productID uint, modifierIDs []uint) (decimal.Decimal, error) {
	p, err := s.Repo.GetProduct(productID)
	if err != nil {
		return decimal.Zero, apperr.NotFound("product", productID)
	}
	if len(modifierIDs) > 0 {
		count, err := s.Repo.CountModifiersBelongToProduct(productID, modifierIDs)
		if err != nil {
			return decimal.Zero, err
		}
		if count != int64(len(modifierIDs)) {
			return decimal.Zero, apperr.NotFound("modifier", 0)
		}
	}
	mods, err := s.Repo.GetModifiersByIDs(modifierIDs)
	if err != nil {
		return decimal.Zero, err
	}
	price := p.BasePrice
	for _, m := range mods {
		price = price.Add(m.PriceDelta)
	}
	return price, nil
}

// TaxPercent resolves the effective tax percent for a product via its
// tax rule.
func (s *CatalogService) TaxPercent(productID uint) (decimal.Decimal, error) {
	p, err := s.Repo.GetProduct(productID)
	if err != nil {
		return decimal.Zero, apperr.NotFound("product", productID)
	}
	return p.TaxRule.Percent, nil
}

func (s *CatalogService) ListProducts() ([]entity.Product, error) {
	return s.Repo.ListProducts()
}
