package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tawan-r/ruenthai-api/models"
)

// newTestDB creates a fresh in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Table{},
		&models.Category{},
		&models.Menu{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.Cart{},
		&models.OrderHistory{},
		&models.Inventory{},
	)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, auth0ID string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Auth0ID:  auth0ID,
		Username: "user-" + auth0ID,
		Email:    auth0ID + "@example.com",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTable(t *testing.T, db *gorm.DB, number int) *models.Table {
	t.Helper()

	table := &models.Table{TableNumber: number, Status: models.TableAvailable}
	require.NoError(t, db.Create(table).Error)
	return table
}

func createTestMenu(t *testing.T, db *gorm.DB, name string, price string) *models.Menu {
	t.Helper()

	menu := &models.Menu{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(menu).Error)
	return menu
}

// fixedClock returns a now func pinned to the given instant
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
