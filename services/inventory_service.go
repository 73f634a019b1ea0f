package services

import (
	"errors"
	"strings"

	"github.com/tawan-r/ruenthai-api/models"
	"gorm.io/gorm"
)

// InventoryService manages ingredient stock rows and their optional link to
// the menu item they supply
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates an inventory service backed by db
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// InventoryUpdate carries the fields of a partial stock update; nil fields
// keep their current value
type InventoryUpdate struct {
	ItemName *string
	Quantity *int
	MenuID   *uint
}

// Create adds a stock row for an ingredient
func (s *InventoryService) Create(itemName string, quantity int) (*models.Inventory, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, &ValidationError{Code: "INVALID_ITEM_NAME", Message: "ต้องระบุ itemName และ quantity"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Code: "INVALID_QUANTITY", Message: "quantity ต้องเป็นตัวเลขจำนวนเต็มบวก"}
	}

	item := models.Inventory{ItemName: itemName, Quantity: quantity}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, &TransactionFailure{Op: "inventory create", Err: err}
	}
	return &item, nil
}

// List returns all stock rows ordered by ingredient name
func (s *InventoryService) List() ([]models.Inventory, error) {
	var items []models.Inventory
	if err := s.db.Preload("Menu").Order("item_name asc").Find(&items).Error; err != nil {
		return nil, &TransactionFailure{Op: "inventory list", Err: err}
	}
	return items, nil
}

// Update applies a partial update to a stock row. A menu link is only
// accepted when the menu item exists.
func (s *InventoryService) Update(id uint, patch InventoryUpdate) (*models.Inventory, error) {
	var item models.Inventory
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "inventory", Message: "ไม่พบวัตถุดิบที่ต้องการอัปเดต"}
		}
		return nil, &TransactionFailure{Op: "inventory lookup", Err: err}
	}

	if patch.ItemName != nil {
		name := strings.TrimSpace(*patch.ItemName)
		if name == "" {
			return nil, &ValidationError{Code: "INVALID_ITEM_NAME", Message: "ต้องระบุ itemName"}
		}
		item.ItemName = name
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, &ValidationError{Code: "INVALID_QUANTITY", Message: "quantity ต้องเป็นตัวเลขจำนวนเต็มบวก"}
		}
		item.Quantity = *patch.Quantity
	}
	if patch.MenuID != nil {
		var menu models.Menu
		if err := s.db.First(&menu, *patch.MenuID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Code: "INVALID_MENU", Message: "MENU ID ไม่ถูกต้อง หรือไม่มีอยู่ในระบบ"}
			}
			return nil, &TransactionFailure{Op: "menu lookup", Err: err}
		}
		item.MenuID = patch.MenuID
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, &TransactionFailure{Op: "inventory update", Err: err}
	}
	return &item, nil
}

// Delete removes a stock row
func (s *InventoryService) Delete(id uint) error {
	var item models.Inventory
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "inventory", Message: "ไม่พบวัตถุดิบที่ต้องการลบ"}
		}
		return &TransactionFailure{Op: "inventory lookup", Err: err}
	}
	if err := s.db.Delete(&item).Error; err != nil {
		return &TransactionFailure{Op: "inventory delete", Err: err}
	}
	return nil
}
