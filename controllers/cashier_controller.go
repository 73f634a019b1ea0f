package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
)

// ListOrders handles GET /api/v1/cashier/orders - all orders, optionally
// narrowed by tableId and payment status code (UNPAID/PAID/CANCELLED)
func ListOrders(c *gin.Context) {
	var filter services.OrderFilter
	if raw := c.Query("tableId"); raw != "" {
		tableID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid table ID",
				},
			})
			return
		}
		filter.TableID = uint(tableID)
	}
	if code := c.Query("paymentStatus"); code != "" {
		status, ok := models.PaymentStatusFromCode(code)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "paymentStatus must be UNPAID, PAID or CANCELLED",
				},
			})
			return
		}
		filter.PaymentStatus = status
	}

	svc := services.NewOrderService(config.GetDB())
	orders, err := svc.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderRequest represents the cashier's replacement item list
type UpdateOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrder handles PUT /api/v1/cashier/orders/:id - replaces an order's
// items and reprices it from the current menu in one transaction
func UpdateOrder(c *gin.Context) {
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

	var req UpdateOrderRequest
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

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.UpdateByCashier(uint(orderID), toOrderLines(req.Items))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatusRequest represents a cashier order state change
type UpdateOrderStatusRequest struct {
	Status        models.OrderStatus   `json:"status" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus string               `json:"paymentStatus"`
}

// UpdateOrderStatus handles PATCH /api/v1/cashier/orders/:id/status.
// Cancelling an order always forces its payment state to cancelled.
func UpdateOrderStatus(c *gin.Context) {
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

	var req UpdateOrderStatusRequest
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

	var paymentStatus models.PaymentStatus
	if req.PaymentStatus != "" {
		status, ok := models.PaymentStatusFromCode(req.PaymentStatus)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "paymentStatus must be UNPAID, PAID or CANCELLED",
				},
			})
			return
		}
		paymentStatus = status
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.UpdateStatus(uint(orderID), req.Status, req.PaymentMethod, paymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CompletePaymentRequest represents the request body for settling an order
type CompletePaymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// CompletePayment handles POST /api/v1/cashier/orders/:id/payment - marks
// the order paid and writes its history ledger row in one transaction
func CompletePayment(c *gin.Context) {
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

	var req CompletePaymentRequest
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

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.CompletePayment(uint(orderID), req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListUnpaidTables handles GET /api/v1/cashier/tables/unpaid - table
// numbers that still have an unpaid order open
func ListUnpaidTables(c *gin.Context) {
	svc := services.NewOrderService(config.GetDB())
	tableNumbers, err := svc.ListUnpaidTableNumbers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tableNumbers,
	})
}
