package entity

import (
	"gorm.io/gorm"
)

type Area struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Color    string `json:"color"`
	Capacity int    `json:"capacity"` // 0 = unbounded

	Tables []Table `json:"-"` // preload only for layout endpoints
}
