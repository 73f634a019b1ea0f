package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderHistory is an append-only ledger row written once when an order's
// payment completes. Rows are never updated; reporting reads them by the
// denormalized year/month/day columns.
type OrderHistory struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        *uint           `gorm:"index" json:"user_id,omitempty"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	TableID       *uint           `json:"table_id,omitempty"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Year          int             `gorm:"index" json:"year"`
	Month         int             `gorm:"index" json:"month"`
	Day           int             `gorm:"index" json:"day"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderHistory model
func (OrderHistory) TableName() string {
	return "order_histories"
}
