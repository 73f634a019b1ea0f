package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

// CartService manages the per-user staging cart and folds it into an
// immutable order at checkout
type CartService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCartService creates a cart service backed by db
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db, now: time.Now}
}

// Add puts quantity of a menu item into the user's cart for the given table.
// An existing row for the same (menu, table) pair accumulates instead of
// duplicating. Price and total always track the live menu price.
func (s *CartService) Add(userID, menuID, tableID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Code: "INVALID_QUANTITY", Message: "ข้อมูลไม่ถูกต้อง"}
	}

	var menu models.Menu
	if err := s.db.First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "menu", Message: "ไม่พบเมนูนี้"}
		}
		return nil, &TransactionFailure{Op: "menu lookup", Err: err}
	}
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "table", Message: "ไม่พบโต๊ะนี้"}
		}
		return nil, &TransactionFailure{Op: "table lookup", Err: err}
	}

	var item models.Cart
	err := s.db.
		Where("user_id = ? AND menu_id = ? AND table_id = ?", userID, menuID, tableID).
		First(&item).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		item.Price = menu.Price
		item.Total = menu.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if err := s.db.Save(&item).Error; err != nil {
			return nil, &TransactionFailure{Op: "cart update", Err: err}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.Cart{
			UserID:   userID,
			TableID:  tableID,
			MenuID:   menuID,
			Quantity: quantity,
			Price:    menu.Price,
			Total:    menu.Price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, &TransactionFailure{Op: "cart create", Err: err}
		}
	default:
		return nil, &TransactionFailure{Op: "cart lookup", Err: err}
	}

	return &item, nil
}

// Items returns the user's cart rows with their menu details
func (s *CartService) Items(userID uint) ([]models.Cart, error) {
	var items []models.Cart
	if err := s.db.Where("user_id = ?", userID).Preload("Menu").Find(&items).Error; err != nil {
		return nil, &TransactionFailure{Op: "cart list", Err: err}
	}
	return items, nil
}

// Update sets a cart row's quantity (clamped to at least one) and
// recomputes its total from the live menu price
func (s *CartService) Update(cartID uint, quantity int) (*models.Cart, error) {
	var item models.Cart
	if err := s.db.Preload("Menu").First(&item, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "cart", Message: "ไม่พบเมนูในตะกร้า"}
		}
		return nil, &TransactionFailure{Op: "cart lookup", Err: err}
	}

	if quantity < 1 {
		quantity = 1
	}
	item.Quantity = quantity
	item.Total = item.Menu.Price.Mul(decimal.NewFromInt(int64(quantity)))
	if err := s.db.Save(&item).Error; err != nil {
		return nil, &TransactionFailure{Op: "cart update", Err: err}
	}
	return &item, nil
}

// Remove deletes the user's cart row for a menu item
func (s *CartService) Remove(userID, menuID uint) error {
	var item models.Cart
	if err := s.db.Where("user_id = ? AND menu_id = ?", userID, menuID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "cart", Message: "ไม่พบเมนูในตะกร้า"}
		}
		return &TransactionFailure{Op: "cart lookup", Err: err}
	}
	if err := s.db.Delete(&item).Error; err != nil {
		return &TransactionFailure{Op: "cart delete", Err: err}
	}
	return nil
}

// Checkout folds the user's cart into an order: item snapshots priced from
// the live menu, the decimal total, and the cart wipe all commit in one
// transaction. A crash mid-checkout can never leave items both in the cart
// and in a new order, nor clear the cart without producing an order.
func (s *CartService) Checkout(userID uint, tableID uint) (*models.Order, error) {
	if tableID != 0 {
		var table models.Table
		if err := s.db.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "table", Message: "ไม่พบหมายเลขโต๊ะนี้"}
			}
			return nil, &TransactionFailure{Op: "table lookup", Err: err}
		}
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The cart is read and priced under the same transaction that wipes
		// it, so a row added concurrently is never wiped without being part
		// of the order.
		var cartItems []models.Cart
		if err := lockForUpdate(tx).
			Where("user_id = ?", userID).
			Preload("Menu").
			Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return &ValidationError{Code: "EMPTY_CART", Message: "ตะกร้าว่างเปล่า"}
		}

		total := decimal.Zero
		cartIDs := make([]uint, 0, len(cartItems))
		items := make([]models.OrderItem, 0, len(cartItems))
		for _, cartItem := range cartItems {
			if cartItem.Menu == nil {
				return &ValidationError{Code: "UNKNOWN_MENU_ITEM", Message: "พบเมนูที่ไม่มีอยู่ในระบบ"}
			}
			price := cartItem.Menu.Price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
			cartIDs = append(cartIDs, cartItem.ID)
			items = append(items, models.OrderItem{
				MenuID:   cartItem.MenuID,
				Quantity: cartItem.Quantity,
				Price:    price,
			})
		}
		if total.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Code: "INVALID_TOTAL", Message: "ยอดรวมไม่ถูกต้อง"}
		}

		order = models.Order{
			UserID:        &userID,
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentUnpaid,
			PaymentMethod: models.PaymentMethodQR,
			TotalPrice:    total,
		}
		if tableID != 0 {
			order.TableID = &tableID
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

		// Wipe only the rows that were folded into the order.
		return tx.Where("id IN ?", cartIDs).Delete(&models.Cart{}).Error
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, &TransactionFailure{Op: "checkout", Err: err}
	}

	return &order, nil
}
