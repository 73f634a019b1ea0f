package models

import "time"

// Reservation is a claim on a table for a one-hour window starting at Time.
// It is owned by exactly one of User or GuestUser, and optionally linked to
// exactly one order through the unique OrderID back-reference. Once a
// reservation reaches CANCELLED or COMPLETED it is never mutated again.
type Reservation struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	TableID     uint              `gorm:"not null;index" json:"table_id"`
	Table       *Table            `gorm:"foreignKey:TableID" json:"table,omitempty"`
	UserID      *uint             `gorm:"index" json:"user_id,omitempty"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestUserID *uint             `gorm:"index" json:"guest_user_id,omitempty"`
	GuestUser   *GuestUser        `gorm:"foreignKey:GuestUserID" json:"guest_user,omitempty"`
	OrderID     *uint             `gorm:"uniqueIndex" json:"order_id,omitempty"`
	Order       *Order            `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Time        time.Time         `gorm:"not null;index" json:"time"`
	People      int               `json:"people"`
	Status      ReservationStatus `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationWindow is the fixed duration a reservation occupies its table
const ReservationWindow = time.Hour

// ConflictBuffer is the slack added on both sides of a requested window when
// checking for overlapping reservations, covering serving and cleanup time
const ConflictBuffer = 3 * time.Hour
