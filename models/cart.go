package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a per-user mutable staging row of a prospective order item.
// Checkout folds all of a user's cart rows into order items and clears them
// in one atomic unit.
type Cart struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	TableID   uint            `gorm:"not null" json:"table_id"`
	MenuID    uint            `gorm:"not null" json:"menu_id"`
	Menu      *Menu           `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}
