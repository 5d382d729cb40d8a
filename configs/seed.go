package configs

import (
	"log"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// First-run administrator account from env.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// Seed status and tax lookups.
func SeedLookups() error {
	db := DB()

	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusOpen})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusInPreparation})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusPartial})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusClosed})

	var count int64
	db.Model(&entity.TaxRule{}).Count(&count)
	if count == 0 {
		db.Create(&entity.TaxRule{Name: "standard", Percent: decimal.NewFromInt(10)})
		db.Create(&entity.TaxRule{Name: "exempt", Percent: decimal.Zero})
	}

	log.Println("lookup tables seeded")
	return nil
}
