package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tawan-r/ruenthai-api/models"
)

func dinnerTime() time.Time {
	return time.Date(2026, 3, 14, 19, 0, 0, 0, time.Local)
}

func TestReserve_Success(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	table4 := createTestTable(t, db, 4)

	reservations, err := svc.Reserve(
		ReservationOwner{UserID: &user.ID},
		[]uint{table3.ID, table4.ID},
		dinnerTime(), 4)
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	for _, r := range reservations {
		assert.Equal(t, models.ReservationPending, r.Status)
		assert.Equal(t, dinnerTime(), r.Time.Local())
		assert.Equal(t, 4, r.People)
	}

	var tables []models.Table
	require.NoError(t, db.Where("id IN ?", []uint{table3.ID, table4.ID}).Find(&tables).Error)
	for _, table := range tables {
		assert.Equal(t, models.TableReserved, table.Status)
	}
}

func TestReserve_ConflictInsideBuffer(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	table4 := createTestTable(t, db, 4)

	_, err := svc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table3.ID, table4.ID}, dinnerTime(), 4)
	require.NoError(t, err)

	// 20:30 is inside the 3-hour buffer around Alice's 19:00-20:00 window
	_, err = svc.Reserve(ReservationOwner{UserID: &bob.ID},
		[]uint{table3.ID}, dinnerTime().Add(90*time.Minute), 2)
	require.Error(t, err)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uint{table3.ID}, conflict.TableIDs)
}

func TestReserve_PartialConflictWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	table5 := createTestTable(t, db, 5)

	_, err := svc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table3.ID}, dinnerTime(), 4)
	require.NoError(t, err)

	// Table 5 is free, but table 3 conflicts: the whole request must fail
	_, err = svc.Reserve(ReservationOwner{UserID: &bob.ID},
		[]uint{table3.ID, table5.ID}, dinnerTime().Add(90*time.Minute), 2)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uint{table3.ID}, conflict.TableIDs)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).
		Where("table_id = ?", table5.ID).Count(&count).Error)
	assert.Zero(t, count, "no reservation may be written for the free table")

	var table models.Table
	require.NoError(t, db.First(&table, table5.ID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
}

func TestReserve_FreeTableSucceedsDespiteNeighborConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	table5 := createTestTable(t, db, 5)

	_, err := svc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table3.ID}, dinnerTime(), 4)
	require.NoError(t, err)

	reservations, err := svc.Reserve(ReservationOwner{UserID: &bob.ID},
		[]uint{table5.ID}, dinnerTime().Add(90*time.Minute), 2)
	require.NoError(t, err)
	assert.Len(t, reservations, 1)
}

func TestReserve_OutsideBufferSucceeds(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	bob := createTestUser(t, db, "auth0|bob", models.RoleUser)
	table3 := createTestTable(t, db, 3)

	_, err := svc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table3.ID}, dinnerTime(), 4)
	require.NoError(t, err)

	// 23:00 start: its buffered window begins at 20:00, just past Alice's start
	_, err = svc.Reserve(ReservationOwner{UserID: &bob.ID},
		[]uint{table3.ID}, dinnerTime().Add(4*time.Hour), 2)
	require.NoError(t, err)
}

func TestReserve_UnknownTableRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)

	_, err := svc.Reserve(ReservationOwner{UserID: &user.ID},
		[]uint{table3.ID, 999}, dinnerTime(), 2)
	require.Error(t, err)

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "INVALID_TABLE", validation.Code)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReserve_OwnerValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	table3 := createTestTable(t, db, 3)
	userID := uint(1)
	guestID := uint(2)

	cases := []struct {
		name  string
		owner ReservationOwner
	}{
		{"no owner", ReservationOwner{}},
		{"both owners", ReservationOwner{UserID: &userID, GuestUserID: &guestID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Reserve(tc.owner, []uint{table3.ID}, dinnerTime(), 2)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, "INVALID_OWNER", validation.Code)
		})
	}
}

func TestReserve_InputValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	owner := ReservationOwner{UserID: &user.ID}

	cases := []struct {
		name     string
		tableIDs []uint
		at       time.Time
		people   int
		wantCode string
	}{
		{"zero time", []uint{table3.ID}, time.Time{}, 2, "INVALID_TIME"},
		{"no people", []uint{table3.ID}, dinnerTime(), 0, "INVALID_PEOPLE"},
		{"no tables", nil, dinnerTime(), 2, "NO_TABLES"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Reserve(owner, tc.tableIDs, tc.at, tc.people)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tc.wantCode, validation.Code)
		})
	}
}

func TestReserveAsGuest_Success(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	table3 := createTestTable(t, db, 3)

	guest, reservations, err := svc.ReserveAsGuest("สมชาย", "0812345678",
		[]uint{table3.ID}, dinnerTime(), 2)
	require.NoError(t, err)
	require.NotNil(t, guest)
	require.Len(t, reservations, 1)
	require.NotNil(t, reservations[0].GuestUserID)
	assert.Equal(t, guest.ID, *reservations[0].GuestUserID)
	assert.Nil(t, reservations[0].UserID)
}

func TestReserveAsGuest_ConflictLeavesNoGuestRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	alice := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)

	_, err := svc.Reserve(ReservationOwner{UserID: &alice.ID},
		[]uint{table3.ID}, dinnerTime(), 4)
	require.NoError(t, err)

	_, _, err = svc.ReserveAsGuest("สมชาย", "0812345678",
		[]uint{table3.ID}, dinnerTime(), 2)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))

	// The guest row was created inside the failed transaction and must be gone
	var count int64
	require.NoError(t, db.Model(&models.GuestUser{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListForUser_FiltersByDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)
	table4 := createTestTable(t, db, 4)

	_, err := svc.Reserve(ReservationOwner{UserID: &user.ID},
		[]uint{table3.ID}, dinnerTime(), 2)
	require.NoError(t, err)
	_, err = svc.Reserve(ReservationOwner{UserID: &user.ID},
		[]uint{table4.ID}, dinnerTime().AddDate(0, 0, 1), 2)
	require.NoError(t, err)

	reservations, err := svc.ListForUser(user.ID, dinnerTime())
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, table3.ID, reservations[0].TableID)
}

func TestListForGuest_FreedTableReportedCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	table3 := createTestTable(t, db, 3)
	at := dinnerTime()
	svc.now = fixedClock(at)

	_, _, err := svc.ReserveAsGuest("สมชาย", "0812345678", []uint{table3.ID}, at, 2)
	require.NoError(t, err)

	// Staff already freed the table
	require.NoError(t, db.Model(&models.Table{}).
		Where("id = ?", table3.ID).
		Update("status", models.TableAvailable).Error)

	reservations, err := svc.ListForGuest("0812345678")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, models.ReservationCompleted, reservations[0].Status)
}

func TestListForGuest_UnknownPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	svc.now = fixedClock(dinnerTime())

	_, err := svc.ListForGuest("0000000000")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestReserve_WrapsUnexpectedErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	user := createTestUser(t, db, "auth0|alice", models.RoleUser)
	table3 := createTestTable(t, db, 3)

	// Force the reservation insert itself to fail
	err := db.Callback().Create().Before("gorm:create").Register("fail_reservations", func(tx *gorm.DB) {
		if tx.Statement.Table == "reservations" {
			tx.AddError(gorm.ErrInvalidData)
		}
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("fail_reservations")

	_, err = svc.Reserve(ReservationOwner{UserID: &user.ID},
		[]uint{table3.ID}, dinnerTime(), 2)
	require.Error(t, err)

	var failure *TransactionFailure
	require.True(t, errors.As(err, &failure))

	// Rollback must also undo the table status change
	var table models.Table
	require.NoError(t, db.First(&table, table3.ID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
}
