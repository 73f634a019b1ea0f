package services

import (
	"time"

	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

// ReservationOwner identifies who a reservation belongs to: exactly one of
// UserID or GuestUserID must be set.
type ReservationOwner struct {
	UserID      *uint
	GuestUserID *uint
}

// ReservationService schedules table reservations. Conflict detection and
// reservation creation run as a single conditional insert: the transaction
// locks the requested table rows, re-checks the conflict window and only
// then writes, so two racing requests can never both commit overlapping
// reservations.
type ReservationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReservationService creates a reservation service backed by db
func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, now: time.Now}
}

// Reserve books every table in tableIDs for the one-hour window starting at
// startTime, on behalf of owner. Any existing PENDING reservation whose
// start falls inside the requested window expanded by the ±3-hour buffer is
// a conflict; the returned ConflictError lists every conflicting table and
// nothing is written. On success one PENDING reservation per table is
// created and all tables move to RESERVED, all-or-nothing.
func (s *ReservationService) Reserve(owner ReservationOwner, tableIDs []uint, startTime time.Time, people int) ([]models.Reservation, error) {
	if (owner.UserID == nil) == (owner.GuestUserID == nil) {
		return nil, &ValidationError{Code: "INVALID_OWNER", Message: "การจองต้องมีเจ้าของเพียงหนึ่งเดียว"}
	}

	var reservations []models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		reservations, err = s.reserveTx(tx, owner, tableIDs, startTime, people)
		return err
	})
	if err != nil {
		return nil, wrapReserveErr(err)
	}
	return reservations, nil
}

// ReserveAsGuest creates the guest identity and books the tables in the same
// atomic unit, so a failed booking never leaves an orphan guest record.
func (s *ReservationService) ReserveAsGuest(name, phone string, tableIDs []uint, startTime time.Time, people int) (*models.GuestUser, []models.Reservation, error) {
	if name == "" || phone == "" {
		return nil, nil, &ValidationError{Code: "INVALID_GUEST", Message: "กรุณาระบุชื่อและเบอร์โทร"}
	}

	var guest models.GuestUser
	var reservations []models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		guest = models.GuestUser{Name: name, Phone: phone}
		if err := tx.Create(&guest).Error; err != nil {
			return err
		}
		var err error
		reservations, err = s.reserveTx(tx, ReservationOwner{GuestUserID: &guest.ID}, tableIDs, startTime, people)
		return err
	})
	if err != nil {
		return nil, nil, wrapReserveErr(err)
	}
	return &guest, reservations, nil
}

// reserveTx performs the conditional insert inside an open transaction
func (s *ReservationService) reserveTx(tx *gorm.DB, owner ReservationOwner, tableIDs []uint, startTime time.Time, people int) ([]models.Reservation, error) {
	if startTime.IsZero() {
		return nil, &ValidationError{Code: "INVALID_TIME", Message: "เวลาไม่ถูกต้อง"}
	}
	if people < 1 {
		return nil, &ValidationError{Code: "INVALID_PEOPLE", Message: "ต้องระบุจำนวนคน"}
	}
	if len(tableIDs) == 0 {
		return nil, &ValidationError{Code: "NO_TABLES", Message: "ต้องเลือกอย่างน้อย 1 โต๊ะ"}
	}

	endTime := startTime.Add(models.ReservationWindow)
	windowStart := startTime.Add(-models.ConflictBuffer)
	windowEnd := endTime.Add(models.ConflictBuffer)

	// Lock the table rows first; they anchor the conflict check.
	var tables []models.Table
	if err := lockForUpdate(tx).Where("id IN ?", tableIDs).Find(&tables).Error; err != nil {
		return nil, err
	}
	if len(tables) != len(tableIDs) {
		return nil, &ValidationError{Code: "INVALID_TABLE", Message: "พบโต๊ะบางตัวไม่ถูกต้อง"}
	}

	var conflicting []models.Reservation
	if err := tx.
		Where("table_id IN ? AND status = ? AND time >= ? AND time < ?",
			tableIDs, models.ReservationPending, windowStart, windowEnd).
		Find(&conflicting).Error; err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		seen := make(map[uint]bool)
		var busy []uint
		for _, r := range conflicting {
			if !seen[r.TableID] {
				seen[r.TableID] = true
				busy = append(busy, r.TableID)
			}
		}
		return nil, &ConflictError{TableIDs: busy}
	}

	reservations := make([]models.Reservation, 0, len(tableIDs))
	for _, tableID := range tableIDs {
		reservation := models.Reservation{
			TableID:     tableID,
			UserID:      owner.UserID,
			GuestUserID: owner.GuestUserID,
			Time:        startTime,
			People:      people,
			Status:      models.ReservationPending,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := tx.Model(&models.Table{}).
		Where("id IN ?", tableIDs).
		Update("status", models.TableReserved).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// wrapReserveErr keeps caller-facing errors typed and folds everything else
// into a retryable TransactionFailure
func wrapReserveErr(err error) error {
	switch err.(type) {
	case *ValidationError, *ConflictError:
		return err
	}
	return &TransactionFailure{Op: "reserve", Err: err}
}

// ListForUser returns the user's reservations on the given calendar day
func (s *ReservationService) ListForUser(userID uint, day time.Time) ([]models.Reservation, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var reservations []models.Reservation
	if err := s.db.
		Where("user_id = ? AND time >= ? AND time < ?", userID, start, end).
		Preload("Table").
		Order("time asc").
		Find(&reservations).Error; err != nil {
		return nil, &TransactionFailure{Op: "reservation list", Err: err}
	}
	return reservations, nil
}

// ListForGuest returns today's reservations for the guest identified by
// phone number. A reservation whose table is already AVAILABLE again is
// reported as COMPLETED regardless of its stored status.
func (s *ReservationService) ListForGuest(phone string) ([]models.Reservation, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var reservations []models.Reservation
	if err := s.db.
		Joins("JOIN guest_users ON guest_users.id = reservations.guest_user_id").
		Where("guest_users.phone = ? AND reservations.time >= ? AND reservations.time < ?", phone, start, end).
		Preload("Table").
		Order("reservations.time asc").
		Find(&reservations).Error; err != nil {
		return nil, &TransactionFailure{Op: "guest reservation list", Err: err}
	}
	if len(reservations) == 0 {
		return nil, &NotFoundError{Entity: "reservation", Message: "ไม่พบข้อมูลการจองของวันนี้สำหรับเบอร์นี้"}
	}

	for i := range reservations {
		if reservations[i].Table != nil && reservations[i].Table.Status == models.TableAvailable {
			reservations[i].Status = models.ReservationCompleted
		}
	}
	return reservations, nil
}

// ListAll returns every reservation with its owner and table, newest first.
// Used by the cashier view.
func (s *ReservationService) ListAll() ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := s.db.
		Preload("User").
		Preload("GuestUser").
		Preload("Table").
		Order("time desc").
		Find(&reservations).Error; err != nil {
		return nil, &TransactionFailure{Op: "reservation list", Err: err}
	}
	return reservations, nil
}
