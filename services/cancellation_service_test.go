package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tawan-r/ruenthai-api/models"
)

// createCancellableOrder writes an unpaid order created at the given instant
func createCancellableOrder(t *testing.T, svc *CancellationService, userID uint, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:        &userID,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentUnpaid,
		PaymentMethod: models.PaymentMethodCash,
		TotalPrice:    decimal.RequireFromString("100.00"),
		CreatedAt:     createdAt,
	}
	require.NoError(t, svc.db.Create(order).Error)
	return order
}

func assertPolicyCode(t *testing.T, err error, code string) {
	t.Helper()

	var policy *PolicyViolation
	require.True(t, errors.As(err, &policy), "want PolicyViolation, got %v", err)
	assert.Equal(t, code, policy.Code)
}

func TestCancelOrder_OwnerWithinWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)

	placedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	svc.now = fixedClock(placedAt.Add(2 * time.Minute))
	order := createCancellableOrder(t, svc, user.ID, placedAt)

	require.NoError(t, svc.CancelOrder(order.ID, Requester{UserID: user.ID, Role: user.Role}))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.PaymentCancelled, reloaded.PaymentStatus)
}

func TestCancelOrder_NotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)

	placedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	svc.now = fixedClock(placedAt.Add(time.Minute))
	order := createCancellableOrder(t, svc, alice.ID, placedAt)

	err := svc.CancelOrder(order.ID, Requester{UserID: bob.ID, Role: bob.Role})
	assertPolicyCode(t, err, PolicyForbidden)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.PaymentUnpaid, reloaded.PaymentStatus)
}

func TestCancelOrder_CashierOverridesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	cashier := createTestUser(t, db, "auth0|cashier", models.RoleCashier)

	placedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	svc.now = fixedClock(placedAt.Add(time.Minute))
	order := createCancellableOrder(t, svc, alice.ID, placedAt)

	require.NoError(t, svc.CancelOrder(order.ID, Requester{UserID: cashier.ID, Role: cashier.Role}))
}

func TestCancelOrder_PaidOrderRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)

	placedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	svc.now = fixedClock(placedAt.Add(time.Minute))
	order := createCancellableOrder(t, svc, user.ID, placedAt)
	require.NoError(t, db.Model(order).Update("payment_status", models.PaymentPaid).Error)

	err := svc.CancelOrder(order.ID, Requester{UserID: user.ID, Role: user.Role})
	assertPolicyCode(t, err, PolicyInvalidState)
}

func TestCancelOrder_WindowBoundary(t *testing.T) {
	db := newTestDB(t)
	placedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)

	cases := []struct {
		name    string
		elapsed time.Duration
		wantOK  bool
	}{
		{"just inside", 4*time.Minute + 59*time.Second, true},
		{"exactly at limit", 5 * time.Minute, true},
		{"just past", 5*time.Minute + time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCancellationService(db)
			svc.now = fixedClock(placedAt.Add(tc.elapsed))
			order := createCancellableOrder(t, svc, user.ID, placedAt)

			err := svc.CancelOrder(order.ID, Requester{UserID: user.ID, Role: user.Role})
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assertPolicyCode(t, err, PolicyWindowExpired)
			}
		})
	}
}

func TestCancelOrder_DailyQuota(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	requester := Requester{UserID: user.ID, Role: user.Role}

	day := time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local)
	svc.now = fixedClock(day)

	// Burn the full quota
	for i := 0; i < MaxDailyCancellations; i++ {
		order := createCancellableOrder(t, svc, user.ID, day.Add(-time.Minute))
		require.NoError(t, svc.CancelOrder(order.ID, requester))
	}

	blocked := createCancellableOrder(t, svc, user.ID, day.Add(-time.Minute))
	err := svc.CancelOrder(blocked.ID, requester)
	assertPolicyCode(t, err, PolicyQuotaExceeded)

	// The counter is per calendar day: past local midnight it resets
	nextDay := time.Date(2026, 3, 15, 0, 10, 0, 0, time.Local)
	svc.now = fixedClock(nextDay)
	fresh := createCancellableOrder(t, svc, user.ID, nextDay.Add(-time.Minute))
	assert.NoError(t, svc.CancelOrder(fresh.ID, requester))
}

func TestCancelReservation_UnpaidOrderCascades(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	orderSvc := NewOrderService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table := createTestTable(t, db, 7)
	padThai := createTestMenu(t, db, "ผัดไทย", "80.00")

	order, err := orderSvc.Create(&user.ID, table.TableNumber,
		[]OrderLine{{MenuID: padThai.ID, Quantity: 2}}, models.PaymentMethodCash, nil)
	require.NoError(t, err)

	var reservation models.Reservation
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&reservation).Error)

	err = cancelSvc.CancelReservation(reservation.ID, Requester{UserID: user.ID, Role: user.Role})
	require.NoError(t, err)

	var orders, items, reservations int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.Reservation{}).Count(&reservations).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, reservations)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableAvailable, reloaded.Status)
}

func TestCancelReservation_PaidOrderRejected(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	orderSvc := NewOrderService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table := createTestTable(t, db, 7)
	padThai := createTestMenu(t, db, "ผัดไทย", "80.00")

	order, err := orderSvc.Create(&user.ID, table.TableNumber,
		[]OrderLine{{MenuID: padThai.ID, Quantity: 1}}, models.PaymentMethodCash, nil)
	require.NoError(t, err)
	_, err = orderSvc.CompletePayment(order.ID, models.PaymentMethodCash)
	require.NoError(t, err)

	var reservation models.Reservation
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&reservation).Error)

	err = cancelSvc.CancelReservation(reservation.ID, Requester{UserID: user.ID, Role: user.Role})
	assertPolicyCode(t, err, PolicyInvalidState)

	// Nothing may have been touched
	var orders, reservations int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.Reservation{}).Count(&reservations).Error)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 1, reservations)
}

func TestCancelReservation_PaymentDuringCancelRejected(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	orderSvc := NewOrderService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table := createTestTable(t, db, 7)
	padThai := createTestMenu(t, db, "ผัดไทย", "80.00")

	order, err := orderSvc.Create(&user.ID, table.TableNumber,
		[]OrderLine{{MenuID: padThai.ID, Quantity: 1}}, models.PaymentMethodCash, nil)
	require.NoError(t, err)

	var reservation models.Reservation
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&reservation).Error)

	// The payment lands after the reservation lookup but before the
	// transaction reads the order, as a concurrent payment would
	flipped := false
	cbErr := db.Callback().Query().Before("gorm:query").Register("pay_during_cancel", func(tx *gorm.DB) {
		if tx.Statement.Table != "orders" || flipped {
			return
		}
		flipped = true
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE orders SET payment_status = ? WHERE id = ?",
				models.PaymentPaid, order.ID).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, cbErr)
	defer db.Callback().Query().Remove("pay_during_cancel")

	err = cancelSvc.CancelReservation(reservation.ID, Requester{UserID: user.ID, Role: user.Role})
	assertPolicyCode(t, err, PolicyInvalidState)
	require.True(t, flipped)

	// The paid order and its reservation must survive
	var orders, reservations int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.Reservation{}).Count(&reservations).Error)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 1, reservations)
}

func TestCancelReservation_NotOwner(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	reservationSvc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)
	table := createTestTable(t, db, 7)

	reservations, err := reservationSvc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table.ID}, dinnerTime(), 2)
	require.NoError(t, err)

	err = cancelSvc.CancelReservation(reservations[0].ID, Requester{UserID: bob.ID, Role: bob.Role})
	assertPolicyCode(t, err, PolicyForbidden)
}

func TestCancelReservationByTable_RequiresElevatedRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)

	err := svc.CancelReservationByTable(7, Requester{UserID: user.ID, Role: user.Role})
	assertPolicyCode(t, err, PolicyForbidden)
}

func TestCancelReservationByTable_Cashier(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	reservationSvc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	cashier := createTestUser(t, db, "auth0|cashier", models.RoleCashier)
	table := createTestTable(t, db, 7)

	_, err := reservationSvc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table.ID}, dinnerTime(), 2)
	require.NoError(t, err)

	err = cancelSvc.CancelReservationByTable(table.TableNumber,
		Requester{UserID: cashier.ID, Role: cashier.Role})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableAvailable, reloaded.Status)
}

func TestCancelGuestReservation(t *testing.T) {
	db := newTestDB(t)
	cancelSvc := NewCancellationService(db)
	reservationSvc := NewReservationService(db)
	table := createTestTable(t, db, 7)

	_, reservations, err := reservationSvc.ReserveAsGuest("สมชาย", "0812345678",
		[]uint{table.ID}, dinnerTime(), 2)
	require.NoError(t, err)

	require.NoError(t, cancelSvc.CancelGuestReservation(reservations[0].ID))

	// Guest cancellations keep the row for the guest's own lookup
	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, reservations[0].ID).Error)
	assert.Equal(t, models.ReservationCancelled, reloaded.Status)

	var freed models.Table
	require.NoError(t, db.First(&freed, table.ID).Error)
	assert.Equal(t, models.TableAvailable, freed.Status)

	// A second cancel of the same reservation is rejected
	err = cancelSvc.CancelGuestReservation(reservations[0].ID)
	assertPolicyCode(t, err, PolicyInvalidState)
}

func TestCancelOrder_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCancellationService(db)

	err := svc.CancelOrder(12345, Requester{UserID: 1, Role: models.RoleUser})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}
