package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

type testEnv struct {
	db       *gorm.DB
	catalog  *CatalogService
	tables   *TableService
	orders   *OrderService
	payments *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:enginetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{}, &entity.Customer{},
		&entity.Area{}, &entity.Table{},
		&entity.Category{}, &entity.TaxRule{}, &entity.Product{}, &entity.Modifier{},
		&entity.OrderStatus{}, &entity.Order{}, &entity.CartLineItem{}, &entity.LineItemSelection{},
		&entity.Payment{}, &entity.CreditNote{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, name := range []string{entity.StatusOpen, entity.StatusInPreparation, entity.StatusPartial, entity.StatusClosed} {
		if err := db.Create(&entity.OrderStatus{StatusName: name}).Error; err != nil {
			t.Fatalf("seed status %s: %v", name, err)
		}
	}

	catalogRepo := repository.NewCatalogRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	locks := NewLockRegistry()
	catalog := NewCatalogService(db, catalogRepo, orderRepo)
	tables := NewTableService(db, tableRepo, orderRepo, locks)
	orders := NewOrderService(db, orderRepo, catalogRepo, tables, locks)
	payments := NewPaymentService(db, paymentRepo, orders, nil)

	return &testEnv{db: db, catalog: catalog, tables: tables, orders: orders, payments: payments}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// mustTaxRule seeds a tax rule with the given percent.
func (env *testEnv) mustTaxRule(t *testing.T, name string, percent string) *entity.TaxRule {
	t.Helper()
	rule := &entity.TaxRule{Name: name, Percent: dec(t, percent)}
	if err := env.db.Create(rule).Error; err != nil {
		t.Fatalf("seed tax rule: %v", err)
	}
	return rule
}

func (env *testEnv) mustCategory(t *testing.T, name string) *entity.Category {
	t.Helper()
	c, err := env.catalog.CreateCategory(name)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (env *testEnv) mustProduct(t *testing.T, code, name string, price string, taxRuleID, categoryID uint) *entity.Product {
	t.Helper()
	p, err := env.catalog.CreateProduct(&CreateProductIn{
		Code: code, Name: name, CategoryID: categoryID,
		BasePrice: dec(t, price), TaxRuleID: taxRuleID,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", code, err)
	}
	return p
}

func (env *testEnv) mustArea(t *testing.T, name string) *entity.Area {
	t.Helper()
	a, err := env.tables.CreateArea(&CreateAreaIn{Name: name})
	if err != nil {
		t.Fatalf("create area: %v", err)
	}
	return a
}

func (env *testEnv) mustTable(t *testing.T, areaID uint, number int) *entity.Table {
	t.Helper()
	tbl, err := env.tables.CreateTable(&CreateTableIn{AreaID: areaID, Number: number, Capacity: 4})
	if err != nil {
		t.Fatalf("create table %d: %v", number, err)
	}
	return tbl
}

func (env *testEnv) mustTableOrder(t *testing.T, tableID uint) *entity.Order {
	t.Helper()
	o, err := env.orders.Create(1, &CreateOrderIn{Type: entity.OrderTable, TableID: &tableID})
	if err != nil {
		t.Fatalf("create order on table %d: %v", tableID, err)
	}
	return o
}

func (env *testEnv) tableState(t *testing.T, tableID uint) string {
	t.Helper()
	tbl, err := env.tables.Get(tableID)
	if err != nil {
		t.Fatalf("get table %d: %v", tableID, err)
	}
	return tbl.State
}
