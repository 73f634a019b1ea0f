package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
)

// OrderLineRequest is one (menu, quantity) pair in an order request
type OrderLineRequest struct {
	MenuID   uint `json:"menuId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	TableNumber   int                  `json:"tableNumber" binding:"required"`
	Items         []OrderLineRequest   `json:"items" binding:"required,min=1,dive"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	SlipURL       *string              `json:"slipUrl"`
}

func toOrderLines(items []OrderLineRequest) []services.OrderLine {
	lines := make([]services.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, services.OrderLine{MenuID: item.MenuID, Quantity: item.Quantity})
	}
	return lines
}

// CreateOrder handles POST /api/v1/orders - places an order for a table.
// Prices are snapshotted from the menu at this moment; the order, its
// items, the table state and the reservation link commit together.
func CreateOrder(c *gin.Context) {
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

	var req CreateOrderRequest
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

	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Create(&user.ID, req.TableNumber, toOrderLines(req.Items), method, req.SlipURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
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

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order ID",
			},
		})
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Get(uint(orderID))
	if err != nil {
		respondError(c, err)
		return
	}

	// Customers may only read their own orders
	if !user.Role.Elevated() && (order.UserID == nil || *order.UserID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only view your own orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - the signed-in user's orders
func ListMyOrders(c *gin.Context) {
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

	svc := services.NewOrderService(config.GetDB())
	orders, err := svc.ListForUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// CancelOrder handles DELETE /api/v1/orders/:id - cancels an unpaid order,
// subject to the five-minute window and the daily cancellation quota
func CancelOrder(c *gin.Context) {
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

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order ID",
			},
		})
		return
	}

	svc := services.NewCancellationService(config.GetDB())
	requester := services.Requester{UserID: user.ID, Role: user.Role}
	if err := svc.CancelOrder(uint(orderID), requester); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ยกเลิกออเดอร์เรียบร้อยแล้ว",
	})
}

// ListOrderHistory handles GET /api/v1/orders/history - the signed-in
// user's payment ledger, optionally narrowed to a year/month/day
func ListOrderHistory(c *gin.Context) {
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

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	day, _ := strconv.Atoi(c.Query("day"))

	svc := services.NewOrderService(config.GetDB())
	history, err := svc.ListHistory(user.ID, year, month, day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}
