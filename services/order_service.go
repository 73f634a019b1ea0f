package services

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

// OrderLine is one requested (menu, quantity) pair before pricing
type OrderLine struct {
	MenuID   uint
	Quantity int
}

// OrderFilter narrows cashier order listings
type OrderFilter struct {
	TableID       uint
	PaymentStatus models.PaymentStatus
}

// OrderService coordinates the multi-entity order transaction: order plus
// item snapshots, the table state move and the reservation back-link commit
// as one unit, so no reader ever observes a half-applied order.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// priceLines resolves each line's live menu price and returns the item
// snapshots plus the decimal total. Every menu id must exist.
func (s *OrderService) priceLines(tx *gorm.DB, lines []OrderLine) ([]models.OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, &ValidationError{Code: "NO_ITEMS", Message: "กรุณาระบุรายการอาหารที่ถูกต้อง"}
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, decimal.Zero, &ValidationError{Code: "INVALID_QUANTITY", Message: "quantity ต้องเป็นตัวเลขที่มากกว่า 0"}
		}
		ids = append(ids, line.MenuID)
	}

	var menus []models.Menu
	if err := tx.Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, decimal.Zero, err
	}
	prices := make(map[uint]decimal.Decimal, len(menus))
	for _, menu := range menus {
		prices[menu.ID] = menu.Price
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		price, ok := prices[line.MenuID]
		if !ok {
			return nil, decimal.Zero, &ValidationError{Code: "UNKNOWN_MENU_ITEM", Message: "พบเมนูที่ไม่มีอยู่ในระบบ"}
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			MenuID:   line.MenuID,
			Quantity: line.Quantity,
			Price:    price,
		})
	}
	return items, total, nil
}

// Create builds an order from priced line items and commits it together with
// its item snapshots and a reservation back-link. tableNumber may be zero
// for orders without a table. The table status move to RESERVED is advisory:
// its failure is logged and never aborts the transaction; everything else is
// all-or-nothing.
func (s *OrderService) Create(userID *uint, tableNumber int, lines []OrderLine, method models.PaymentMethod, slipURL *string) (*models.Order, error) {
	var table *models.Table
	if tableNumber != 0 {
		var t models.Table
		if err := s.db.Where("table_number = ?", tableNumber).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "table", Message: "ไม่พบโต๊ะนี้ในระบบ"}
			}
			return nil, &TransactionFailure{Op: "table lookup", Err: err}
		}
		table = &t
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items, total, err := s.priceLines(tx, lines)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:        userID,
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentUnpaid,
			PaymentMethod: method,
			SlipURL:       slipURL,
			TotalPrice:    total,
		}
		if table != nil {
			order.TableID = &table.ID
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.OrderItems = items

		if table != nil {
			// Advisory step: a failure here must not lose the order.
			if err := tx.Model(&models.Table{}).
				Where("id = ?", table.ID).
				Update("status", models.TableReserved).Error; err != nil {
				log.Printf("order %d: skipping table %d status update: %v", order.ID, table.ID, err)
			}

			reservation := models.Reservation{
				OrderID: &order.ID,
				TableID: table.ID,
				UserID:  userID,
				Time:    s.now(),
				Status:  models.ReservationReserved,
			}
			if err := tx.Where("order_id = ?", order.ID).
				Assign(map[string]interface{}{
					"table_id": table.ID,
					"time":     reservation.Time,
					"status":   models.ReservationReserved,
				}).
				FirstOrCreate(&reservation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, &TransactionFailure{Op: "order create", Err: err}
	}

	return &order, nil
}

// UpdateByCashier replaces all of an order's items with freshly priced
// snapshots and recomputes the total, in one transaction. If the recreate
// step fails the old items survive untouched.
func (s *OrderService) UpdateByCashier(orderID uint, lines []OrderLine) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", Message: "ไม่พบออเดอร์"}
		}
		return nil, &TransactionFailure{Op: "order lookup", Err: err}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		items, total, err := s.priceLines(tx, lines)
		if err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("total_price", total).Error; err != nil {
			return err
		}
		order.OrderItems = items
		order.TotalPrice = total
		return nil
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, &TransactionFailure{Op: "order update", Err: err}
	}

	return &order, nil
}

// UpdateStatus updates the order and/or payment state. Moving the order to
// CANCELLED forces the payment state to the cancelled token and wins over
// any payment state supplied alongside it.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus, method models.PaymentMethod, paymentStatus models.PaymentStatus) (*models.Order, error) {
	updates := map[string]interface{}{}

	if status != "" {
		if !models.ValidOrderStatus(status) {
			return nil, &ValidationError{Code: "INVALID_STATUS", Message: "สถานะคำสั่งซื้อไม่ถูกต้อง"}
		}
		updates["status"] = status
		if status == models.OrderCancelled {
			updates["payment_status"] = models.PaymentCancelled
		}
	}
	if method != "" {
		if !models.ValidPaymentMethod(method) {
			return nil, &ValidationError{Code: "INVALID_PAYMENT_METHOD", Message: "ช่องทางการชำระเงินไม่ถูกต้อง"}
		}
		updates["payment_method"] = method
	}
	if paymentStatus != "" && status != models.OrderCancelled {
		if !models.ValidPaymentStatus(paymentStatus) {
			return nil, &ValidationError{Code: "INVALID_PAYMENT_STATUS", Message: "สถานะการชำระเงินไม่ถูกต้อง"}
		}
		updates["payment_status"] = paymentStatus
	}
	if len(updates) == 0 {
		return nil, &ValidationError{Code: "NO_UPDATES", Message: "ไม่มีข้อมูลสำหรับอัปเดต"}
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", Message: "ไม่พบคำสั่งซื้อ"}
		}
		return nil, &TransactionFailure{Op: "order lookup", Err: err}
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, &TransactionFailure{Op: "order status update", Err: err}
	}
	return &order, nil
}

// CompletePayment marks the order paid through the given method and appends
// the matching ledger row. The ledger is append-only; the row is written
// exactly once, in the same transaction as the payment state change.
func (s *OrderService) CompletePayment(orderID uint, method models.PaymentMethod) (*models.Order, error) {
	if !models.ValidPaymentMethod(method) {
		return nil, &ValidationError{Code: "INVALID_PAYMENT_METHOD", Message: "วิธีการชำระเงินไม่ถูกต้อง"}
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", Message: "ไม่พบออเดอร์นี้"}
		}
		return nil, &TransactionFailure{Op: "order lookup", Err: err}
	}

	now := s.now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"payment_status": models.PaymentPaid,
			"payment_method": method,
		}).Error; err != nil {
			return err
		}
		history := models.OrderHistory{
			UserID:        order.UserID,
			OrderID:       order.ID,
			TableID:       order.TableID,
			TotalPrice:    order.TotalPrice,
			Date:          now,
			Year:          now.Year(),
			Month:         int(now.Month()),
			Day:           now.Day(),
			PaymentStatus: models.PaymentPaid,
			PaymentMethod: method,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, &TransactionFailure{Op: "payment complete", Err: err}
	}

	order.PaymentStatus = models.PaymentPaid
	order.PaymentMethod = method
	return &order, nil
}

// Get returns one order with its items and owner
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.
		Preload("User").
		Preload("Table").
		Preload("OrderItems").
		Preload("OrderItems.Menu").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", Message: "ไม่พบออเดอร์นี้"}
		}
		return nil, &TransactionFailure{Op: "order get", Err: err}
	}
	return &order, nil
}

// ListForUser returns the user's orders with items, newest first
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.
		Where("user_id = ?", userID).
		Preload("Table").
		Preload("OrderItems").
		Preload("OrderItems.Menu").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, &TransactionFailure{Op: "order list", Err: err}
	}
	return orders, nil
}

// List returns orders matching the filter, newest first
func (s *OrderService) List(filter OrderFilter) ([]models.Order, error) {
	query := s.db.Model(&models.Order{})
	if filter.TableID != 0 {
		query = query.Where("table_id = ?", filter.TableID)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var orders []models.Order
	if err := query.
		Preload("Table").
		Preload("User").
		Preload("OrderItems").
		Preload("OrderItems.Menu").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, &TransactionFailure{Op: "order list", Err: err}
	}
	return orders, nil
}

// ListUnpaidTableNumbers returns the distinct table numbers that still have
// an unpaid order attached
func (s *OrderService) ListUnpaidTableNumbers() ([]int, error) {
	var numbers []int
	if err := s.db.Model(&models.Order{}).
		Distinct("tables.table_number").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("orders.payment_status = ?", models.PaymentUnpaid).
		Order("tables.table_number").
		Pluck("tables.table_number", &numbers).Error; err != nil {
		return nil, &TransactionFailure{Op: "unpaid tables", Err: err}
	}
	return numbers, nil
}

// ListHistory returns ledger rows filtered by user and/or date parts
func (s *OrderService) ListHistory(userID uint, year, month, day int) ([]models.OrderHistory, error) {
	query := s.db.Model(&models.OrderHistory{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if year != 0 {
		query = query.Where("year = ?", year)
	}
	if month != 0 {
		query = query.Where("month = ?", month)
	}
	if day != 0 {
		query = query.Where("day = ?", day)
	}

	var history []models.OrderHistory
	if err := query.Order("date desc").Find(&history).Error; err != nil {
		return nil, &TransactionFailure{Op: "history list", Err: err}
	}
	return history, nil
}
