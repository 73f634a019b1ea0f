package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/services"
)

// GuestReservationRequest represents the request body for a walk-in booking
type GuestReservationRequest struct {
	Name     string    `json:"name" binding:"required"`
	Phone    string    `json:"phone" binding:"required"`
	TableIDs []uint    `json:"tableIds" binding:"required,min=1"`
	Time     time.Time `json:"time" binding:"required"`
	People   int       `json:"people" binding:"required,gt=0"`
}

// CreateGuestReservation handles POST /api/v1/guest/reservations - books
// tables for an unauthenticated guest, creating the guest record and the
// reservations in one atomic step
func CreateGuestReservation(c *gin.Context) {
	var req GuestReservationRequest
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

	svc := services.NewReservationService(config.GetDB())
	guest, reservations, err := svc.ReserveAsGuest(req.Name, req.Phone, req.TableIDs, req.Time, req.People)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"guest":        guest,
			"reservations": reservations,
		},
	})
}

// ListGuestReservations handles GET /api/v1/guest/reservations?phone= -
// today's reservations for the given phone number
func ListGuestReservations(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "phone is required",
			},
		})
		return
	}

	svc := services.NewReservationService(config.GetDB())
	reservations, err := svc.ListForGuest(phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservations,
	})
}

// CancelGuestReservation handles DELETE /api/v1/guest/reservations/:id
func CancelGuestReservation(c *gin.Context) {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid reservation ID",
			},
		})
		return
	}

	svc := services.NewCancellationService(config.GetDB())
	if err := svc.CancelGuestReservation(uint(reservationID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ยกเลิกการจองเรียบร้อยแล้ว",
	})
}
