package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/services"
)

// AddToCartRequest represents the request body for adding a menu item
type AddToCartRequest struct {
	MenuID   uint `json:"menuId" binding:"required"`
	TableID  uint `json:"tableId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// AddToCart handles POST /api/v1/cart - adds a menu item to the signed-in
// user's cart, accumulating quantity if the item is already there
func AddToCart(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req AddToCartRequest
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

	svc := services.NewCartService(config.GetDB())
	item, err := svc.Add(user.ID, req.MenuID, req.TableID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// ListCart handles GET /api/v1/cart
func ListCart(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	svc := services.NewCartService(config.GetDB())
	items, err := svc.Items(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// UpdateCartItemRequest represents the request body for a quantity change
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateCartItem handles PATCH /api/v1/cart/:id - sets a cart row's
// quantity (clamped to at least one)
func UpdateCartItem(c *gin.Context) {
	cartID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid cart item ID",
			},
		})
		return
	}

	var req UpdateCartItemRequest
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

	svc := services.NewCartService(config.GetDB())
	item, err := svc.Update(uint(cartID), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// RemoveFromCart handles DELETE /api/v1/cart/:menuId
func RemoveFromCart(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	menuID, err := strconv.ParseUint(c.Param("menuId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu ID",
			},
		})
		return
	}

	svc := services.NewCartService(config.GetDB())
	if err := svc.Remove(user.ID, uint(menuID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ลบรายการออกจากตะกร้าแล้ว",
	})
}

// CheckoutRequest represents the request body for converting a cart
type CheckoutRequest struct {
	TableID uint `json:"tableId" binding:"required"`
}

// Checkout handles POST /api/v1/cart/checkout - converts the user's cart
// rows for a table into an order. The order is priced from the live menu,
// items are written and the cart is emptied in one transaction.
func Checkout(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CheckoutRequest
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

	svc := services.NewCartService(config.GetDB())
	order, err := svc.Checkout(user.ID, req.TableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}
