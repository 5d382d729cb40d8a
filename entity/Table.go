package entity

import (
	"gorm.io/gorm"
)

// Table states. "Closed" on a ticket is an order state, not a table
// state: a table goes back to free the moment its order closes.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
	TableReserved = "reserved"
)

// Table type tags.
const (
	TableStandard = "standard"
	TableBar      = "bar"
	TableVIP      = "vip"
)

type Table struct {
	gorm.Model
	AreaID uint `gorm:"index:idx_area_number,unique" json:"areaId"`
	Area   Area `json:"-"`

	Number   int    `gorm:"index:idx_area_number,unique" json:"number"`
	Capacity int    `json:"capacity"`
	Type     string `gorm:"not null;default:standard" json:"type"`
	State    string `gorm:"not null;default:free" json:"state"`

	// Layout position, opaque to the engine.
	PosX float64 `json:"posX"`
	PosY float64 `json:"posY"`
}
