package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Catalog exchange format: one row per product,
// product_id, category, name, price, tax_rule, availability, modifiers.
// Modifiers are a |-delimited list of "name:delta" pairs.

var csvHeader = []string{"product_id", "category", "name", "price", "tax_rule", "availability", "modifiers"}

type ImportRowReport struct {
	Row       int    `json:"row"`
	ProductID string `json:"productId"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

type ImportReport struct {
	Imported int               `json:"imported"`
	Rejected int               `json:"rejected"`
	Rows     []ImportRowReport `json:"rows"`
}

// Export writes the full catalog. Re-importing the output into an empty
// catalog reproduces the same products.
func (s *CatalogService) Export(w io.Writer) error {
	products, err := s.Repo.ListProducts()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range products {
		mods := make([]string, 0, len(p.Modifiers))
		for _, m := range p.Modifiers {
			mods = append(mods, fmt.Sprintf("%s:%s", m.Name, m.PriceDelta.StringFixed(2)))
		}
		rec := []string{
			p.Code,
			p.Category.Name,
			p.Name,
			p.BasePrice.StringFixed(2),
			p.TaxRule.Name,
			p.Availability,
			strings.Join(mods, "|"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import reads rows in the exchange format. Failures are per-row: a bad
// row is reported and skipped, the rest of the file still loads. Code
// collisions reject the row unless replaceExisting is set.
func (s *CatalogService) Import(r io.Reader, replaceExisting bool) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, apperr.Validation("cannot read header: %v", err)
	}
	for i, col := range csvHeader {
		if i >= len(header) || strings.TrimSpace(header[i]) != col {
			return nil, apperr.Validation("unexpected header, want %v", csvHeader)
		}
	}

	report := &ImportReport{}
	for rowNum := 2; ; rowNum++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Rejected++
			report.Rows = append(report.Rows, ImportRowReport{Row: rowNum, OK: false, Error: err.Error()})
			continue
		}
		code := strings.TrimSpace(rec[0])
		if err := s.importRow(rec, replaceExisting); err != nil {
			report.Rejected++
			report.Rows = append(report.Rows, ImportRowReport{Row: rowNum, ProductID: code, OK: false, Error: err.Error()})
			continue
		}
		report.Imported++
		report.Rows = append(report.Rows, ImportRowReport{Row: rowNum, ProductID: code, OK: true})
	}
	return report, nil
}

func (s *CatalogService) importRow(rec []string, replaceExisting bool) error {
	code := strings.TrimSpace(rec[0])
	if code == "" {
		return apperr.Validation("product_id is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
	if err != nil {
		return apperr.Validation("bad price %q", rec[3])
	}

	category, err := s.categoryOrCreate(strings.TrimSpace(rec[1]))
	if err != nil {
		return err
	}
	taxRule, err := s.Repo.GetTaxRuleByName(strings.TrimSpace(rec[4]))
	if err != nil {
		return apperr.Validation("unknown tax rule %q", rec[4])
	}

	availability := strings.TrimSpace(rec[5])
	if availability == "" {
		availability = entity.AvailabilityAny
	}

	mods, err := s.modifiersOrCreate(strings.TrimSpace(rec[6]))
	if err != nil {
		return err
	}

	existing, err := s.Repo.GetProductByCode(code)
	if err == nil {
		if !replaceExisting {
			return apperr.DuplicateKey("product", "product code %q already exists", code)
		}
		updates := map[string]any{
			"name":         strings.TrimSpace(rec[2]),
			"category_id":  category.ID,
			"base_price":   price,
			"tax_rule_id":  taxRule.ID,
			"availability": availability,
		}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.UpdateProduct(tx, existing.ID, updates); err != nil {
				return err
			}
			return tx.Model(existing).Association("Modifiers").Replace(mods)
		})
	}

	p := &entity.Product{
		Code:         code,
		Name:         strings.TrimSpace(rec[2]),
		CategoryID:   category.ID,
		BasePrice:    price,
		TaxRuleID:    taxRule.ID,
		Availability: availability,
		Modifiers:    mods,
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.CreateProduct(tx, p)
	})
}

func (s *CatalogService) categoryOrCreate(name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category is required")
	}
	if c, err := s.Repo.GetCategoryByName(name); err == nil {
		return c, nil
	}
	c := &entity.Category{Name: name}
	if err := s.Repo.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) modifiersOrCreate(field string) ([]entity.Modifier, error) {
	if field == "" {
		return nil, nil
	}
	var out []entity.Modifier
	for _, part := range strings.Split(field, "|") {
		name, deltaStr, found := strings.Cut(part, ":")
		delta := decimal.Zero
		if found {
			d, err := decimal.NewFromString(strings.TrimSpace(deltaStr))
			if err != nil {
				return nil, apperr.Validation("bad modifier delta %q", deltaStr)
			}
			delta = d
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperr.Validation("empty modifier name")
		}

		var m entity.Modifier
		err := s.DB.Where("name = ?", name).First(&m).Error
		if err != nil {
			m = entity.Modifier{Name: name, PriceDelta: delta}
			if err := s.Repo.CreateModifier(&m); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}
	return out, nil
}
