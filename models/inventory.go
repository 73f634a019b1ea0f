package models

import "time"

// Inventory is a stock row for a raw ingredient. A row can optionally be
// linked to the menu item it supplies.
type Inventory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemName  string    `gorm:"not null" json:"item_name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	MenuID    *uint     `gorm:"index" json:"menu_id,omitempty"`
	Menu      *Menu     `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventories"
}
