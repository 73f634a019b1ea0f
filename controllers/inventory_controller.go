package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/services"
)

// CreateStockRequest represents the request body for adding an ingredient
type CreateStockRequest struct {
	ItemName string `json:"itemName" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

// CreateStock handles POST /api/v1/admin/inventory
func CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "ต้องระบุ itemName และ quantity",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewInventoryService(config.GetDB())
	item, err := svc.Create(req.ItemName, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "เพิ่มวัตถุดิบสำเร็จ",
		"data":    item,
	})
}

// ListStock handles GET /api/v1/admin/inventory
func ListStock(c *gin.Context) {
	svc := services.NewInventoryService(config.GetDB())
	items, err := svc.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   len(items),
		"data":    items,
	})
}

// UpdateStockRequest represents the request body for a partial stock update
type UpdateStockRequest struct {
	ItemName *string `json:"itemName"`
	Quantity *int    `json:"quantity"`
	MenuID   *uint   `json:"menuId"`
}

// UpdateStock handles PUT /api/v1/admin/inventory/:id
func UpdateStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "รหัสวัตถุดิบไม่ถูกต้อง",
			},
		})
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewInventoryService(config.GetDB())
	item, err := svc.Update(uint(id), services.InventoryUpdate{
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		MenuID:   req.MenuID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "อัปเดตวัตถุดิบสำเร็จ",
		"data":    item,
	})
}

// DeleteStock handles DELETE /api/v1/admin/inventory/:id
func DeleteStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "รหัสวัตถุดิบไม่ถูกต้อง",
			},
		})
		return
	}

	svc := services.NewInventoryService(config.GetDB())
	if err := svc.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ลบวัตถุดิบสำเร็จ",
	})
}
