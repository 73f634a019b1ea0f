package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

const (
	// CancelWindow is how long after creation an order stays cancellable
	CancelWindow = 5 * time.Minute
	// MaxDailyCancellations is the per-user cap on cancelled orders per calendar day
	MaxDailyCancellations = 3
)

// Requester is the identity attempting a cancellation
type Requester struct {
	UserID uint
	Role   models.Role
}

// CancellationService enforces the temporal and quota rules that gate order
// and reservation cancellation, and reverses table/reservation state when a
// cancellation is allowed.
type CancellationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCancellationService creates a cancellation service backed by db
func NewCancellationService(db *gorm.DB) *CancellationService {
	return &CancellationService{db: db, now: time.Now}
}

// CancelOrder cancels an unpaid order. Rules run in order and short-circuit
// on the first violation: ownership, payment-state gate, the five-minute
// window, then the per-day quota. On success the payment state moves to the
// terminal cancelled token.
func (s *CancellationService) CancelOrder(orderID uint, requester Requester) error {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "order", Message: "ไม่พบออเดอร์"}
		}
		return &TransactionFailure{Op: "order lookup", Err: err}
	}

	owned := order.UserID != nil && *order.UserID == requester.UserID
	if !owned && !requester.Role.Elevated() {
		return &PolicyViolation{Code: PolicyForbidden, Message: "คุณไม่มีสิทธิ์ยกเลิกออเดอร์นี้"}
	}

	if order.PaymentStatus != models.PaymentUnpaid {
		return &PolicyViolation{
			Code:    PolicyInvalidState,
			Message: "ไม่สามารถยกเลิกออเดอร์ที่ชำระเงินแล้วหรือกำลังเตรียมอาหารได้",
		}
	}

	now := s.now()
	if now.Sub(order.CreatedAt) > CancelWindow {
		return &PolicyViolation{
			Code:    PolicyWindowExpired,
			Message: "ออเดอร์นี้ไม่สามารถยกเลิกได้ (เกิน 5 นาทีหลังสั่ง)",
		}
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var cancelledToday int64
	if err := s.db.Model(&models.Order{}).
		Where("user_id = ? AND payment_status = ? AND created_at >= ? AND created_at < ?",
			order.UserID, models.PaymentCancelled, dayStart, dayEnd).
		Count(&cancelledToday).Error; err != nil {
		return &TransactionFailure{Op: "cancellation count", Err: err}
	}
	if cancelledToday >= MaxDailyCancellations {
		return &PolicyViolation{
			Code:    PolicyQuotaExceeded,
			Message: fmt.Sprintf("ออเดอร์นี้ไม่สามารถยกเลิกได้ (คุณยกเลิกครบ %d ครั้งในวันนี้แล้ว)", MaxDailyCancellations),
		}
	}

	if err := s.db.Model(&order).
		Update("payment_status", models.PaymentCancelled).Error; err != nil {
		return &TransactionFailure{Op: "order cancel", Err: err}
	}
	return nil
}

// CancelReservation removes a reservation and frees its table. A linked
// order is deleted first so the unique back-reference never dangles; if that
// order is already paid the cancellation is rejected outright. All writes
// commit together or not at all.
func (s *CancellationService) CancelReservation(reservationID uint, requester Requester) error {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "reservation", Message: "ไม่พบการจองที่ต้องการยกเลิก"}
		}
		return &TransactionFailure{Op: "reservation lookup", Err: err}
	}

	owned := reservation.UserID != nil && *reservation.UserID == requester.UserID
	if !owned && !requester.Role.Elevated() {
		return &PolicyViolation{Code: PolicyForbidden, Message: "คุณไม่มีสิทธิ์ยกเลิกการจองนี้"}
	}

	return s.cancelReservationTx(&reservation)
}

// CancelReservationByTable is the cashier path: it cancels the first
// reservation found for the table with the given number
func (s *CancellationService) CancelReservationByTable(tableNumber int, requester Requester) error {
	if !requester.Role.Elevated() {
		return &PolicyViolation{Code: PolicyForbidden, Message: "คุณไม่มีสิทธิ์ดำเนินการนี้"}
	}

	var reservation models.Reservation
	if err := s.db.
		Joins("JOIN tables ON tables.id = reservations.table_id").
		Where("tables.table_number = ?", tableNumber).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "reservation", Message: "ไม่พบการจองของโต๊ะนี้"}
		}
		return &TransactionFailure{Op: "reservation lookup", Err: err}
	}

	return s.cancelReservationTx(&reservation)
}

// CancelGuestReservation cancels a guest reservation in place: the row is
// kept with status CANCELLED and the table goes back to AVAILABLE
func (s *CancellationService) CancelGuestReservation(reservationID uint) error {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "reservation", Message: "ไม่พบรายการจองนี้"}
		}
		return &TransactionFailure{Op: "reservation lookup", Err: err}
	}
	if reservation.Status == models.ReservationCancelled {
		return &PolicyViolation{Code: PolicyInvalidState, Message: "รายการนี้ถูกยกเลิกไปแล้ว"}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reservation).
			Update("status", models.ReservationCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).
			Where("id = ?", reservation.TableID).
			Update("status", models.TableAvailable).Error
	})
	if err != nil {
		return &TransactionFailure{Op: "guest reservation cancel", Err: err}
	}
	return nil
}

func (s *CancellationService) cancelReservationTx(reservation *models.Reservation) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if reservation.OrderID != nil {
			// A paid order must keep its reservation; staff void the payment
			// first. The gate runs on a locked in-transaction read so a
			// payment landing after the caller's lookup still blocks the
			// delete.
			var order models.Order
			if err := lockForUpdate(tx).First(&order, *reservation.OrderID).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			} else if order.PaymentStatus == models.PaymentPaid {
				return &PolicyViolation{
					Code:    PolicyInvalidState,
					Message: "ไม่สามารถยกเลิกการจองที่ชำระเงินแล้วได้",
				}
			}

			if err := tx.Where("order_id = ?", *reservation.OrderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			// Clear the unique back-reference before the order row goes away.
			if err := tx.Model(&models.Reservation{}).
				Where("id = ?", reservation.ID).
				Update("order_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Order{}, *reservation.OrderID).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Reservation{}, reservation.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).
			Where("id = ?", reservation.TableID).
			Update("status", models.TableAvailable).Error
	})
	if err != nil {
		var policyErr *PolicyViolation
		if errors.As(err, &policyErr) {
			return err
		}
		return &TransactionFailure{Op: "reservation cancel", Err: err}
	}
	return nil
}
