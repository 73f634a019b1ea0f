package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
)

// GetPaymentLink handles GET /api/v1/orders/:id/payment-link - builds a
// PromptPay link preloaded with the order's outstanding total
func GetPaymentLink(c *gin.Context) {
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

	if order.PaymentStatus != models.PaymentUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "ออเดอร์นี้ไม่ได้อยู่ในสถานะรอชำระเงิน",
			},
		})
		return
	}

	link, err := services.PaymentLink(order.TotalPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orderId":     order.ID,
			"amount":      order.TotalPrice,
			"paymentLink": link,
		},
	})
}
