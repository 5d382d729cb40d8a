package configs

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.User{}, &entity.Customer{},
		&entity.Area{}, &entity.Table{},
		&entity.Category{}, &entity.TaxRule{}, &entity.Product{}, &entity.Modifier{},
		&entity.OrderStatus{}, &entity.Order{}, &entity.CartLineItem{}, &entity.LineItemSelection{},
		&entity.Payment{}, &entity.CreditNote{},
	)
}
