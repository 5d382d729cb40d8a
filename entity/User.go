package entity

import (
	"gorm.io/gorm"
)

// Staff roles checked at the route boundary. The engine itself only
// records which staff member acted.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWaiter  = "waiter"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `gorm:"not null;default:waiter" json:"role"`

	Orders []Order `gorm:"foreignKey:StaffID" json:"-"`
}
