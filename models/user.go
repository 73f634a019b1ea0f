package models

import (
	"time"

	"gorm.io/gorm"
)

// Role determines what a user is allowed to do
type Role string

const (
	RoleUser    Role = "USER"
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
)

// Elevated reports whether the role may act on other users' orders and reservations
func (r Role) Elevated() bool {
	return r == RoleCashier || r == RoleAdmin
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleCashier, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user (customer, cashier or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Username  string         `gorm:"not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      Role           `gorm:"not null;default:'USER'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// GuestUser is the identity anchor for reservations made without an account
type GuestUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null;index" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the GuestUser model
func (GuestUser) TableName() string {
	return "guest_users"
}
