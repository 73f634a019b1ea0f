package models

import "time"

// Table represents a physical seating unit identified by a unique number.
// Its status is mutated only by the scheduler, the order coordinator and
// the cancellation engine; a table is never deleted while referenced.
type Table struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	TableNumber  int           `gorm:"uniqueIndex;not null" json:"table_number"`
	Status       TableStatus   `gorm:"not null;default:'AVAILABLE'" json:"status"`
	Reservations []Reservation `gorm:"foreignKey:TableID" json:"reservations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Table model
func (Table) TableName() string {
	return "tables"
}
