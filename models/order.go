package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a priced collection of menu items, optionally tied to a table and
// a user. TotalPrice always equals the sum of its item subtotals; both are
// snapshots of menu prices at creation time.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TableID       *uint           `gorm:"index" json:"table_id,omitempty"`
	Table         *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	UserID        *uint           `gorm:"index" json:"user_id,omitempty"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status        OrderStatus     `gorm:"not null;default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"not null" json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	SlipURL       *string         `json:"slip_url,omitempty"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	OrderItems    []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable snapshot of (menu, quantity, price) taken when
// the parent order was created or its items were replaced
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	MenuID    uint            `gorm:"not null;index" json:"menu_id"`
	Menu      *Menu           `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns price multiplied by quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
