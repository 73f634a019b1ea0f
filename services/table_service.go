package services

import (
	"errors"
	"time"

	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

// TableService is the registry of physical tables and their availability
// state machine: AVAILABLE -> RESERVED -> OCCUPIED -> AVAILABLE.
type TableService struct {
	db *gorm.DB
}

// NewTableService creates a table service backed by db
func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

// Get returns the table with the given table number
func (s *TableService) Get(tableNumber int) (*models.Table, error) {
	var table models.Table
	if err := s.db.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "table", Message: "ไม่พบโต๊ะนี้"}
		}
		return nil, &TransactionFailure{Op: "table get", Err: err}
	}
	return &table, nil
}

// List returns all tables. When selectedTime is non-zero each table also
// carries its non-cancelled reservations whose start falls inside the
// ±3-hour buffer around selectedTime, so callers can tell which tables are
// effectively busy at that slot.
func (s *TableService) List(selectedTime time.Time) ([]models.Table, error) {
	query := s.db.Model(&models.Table{})

	if selectedTime.IsZero() {
		query = query.Preload("Reservations", "status <> ?", models.ReservationCancelled)
	} else {
		before := selectedTime.Add(-models.ConflictBuffer)
		after := selectedTime.Add(models.ConflictBuffer)
		query = query.Preload("Reservations", "status <> ? AND time >= ? AND time < ?",
			models.ReservationCancelled, before, after)
	}

	var tables []models.Table
	if err := query.Order("table_number asc").Find(&tables).Error; err != nil {
		return nil, &TransactionFailure{Op: "table list", Err: err}
	}
	return tables, nil
}

// SetStatus moves a table to the given state. Setting a table back to
// AVAILABLE force-completes any reservation still PENDING or RESERVED on it,
// so no reservation is left dangling on a freed table. Both writes commit
// together or not at all.
func (s *TableService) SetStatus(tableNumber int, status models.TableStatus) (*models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, &ValidationError{Code: "INVALID_STATUS", Message: "สถานะไม่ถูกต้อง"}
	}

	var table models.Table
	if err := s.db.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "table", Message: "ไม่พบหมายเลขโต๊ะนี้"}
		}
		return nil, &TransactionFailure{Op: "table lookup", Err: err}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Table{}).
			Where("id = ?", table.ID).
			Update("status", status).Error; err != nil {
			return err
		}

		if status == models.TableAvailable {
			if err := tx.Model(&models.Reservation{}).
				Where("table_id = ? AND status IN ?", table.ID,
					[]models.ReservationStatus{models.ReservationPending, models.ReservationReserved}).
				Update("status", models.ReservationCompleted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &TransactionFailure{Op: "table status update", Err: err}
	}

	table.Status = status
	return &table, nil
}
