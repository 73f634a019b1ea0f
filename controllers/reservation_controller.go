package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/services"
)

// CreateReservationRequest represents the request body for booking tables
type CreateReservationRequest struct {
	TableIDs []uint    `json:"tableIds" binding:"required,min=1"`
	Time     time.Time `json:"time" binding:"required"`
	People   int       `json:"people" binding:"required,gt=0"`
}

// CreateReservation handles POST /api/v1/reservations - books one or more
// tables for the signed-in user in a single all-or-nothing step
func CreateReservation(c *gin.Context) {
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

	var req CreateReservationRequest
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
	owner := services.ReservationOwner{UserID: &user.ID}
	reservations, err := svc.Reserve(owner, req.TableIDs, req.Time, req.People)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    reservations,
	})
}

// ListMyReservations handles GET /api/v1/reservations - the signed-in
// user's reservations for a given day (defaults to today)
func ListMyReservations(c *gin.Context) {
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

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "date must be YYYY-MM-DD",
				},
			})
			return
		}
		day = parsed
	}

	svc := services.NewReservationService(config.GetDB())
	reservations, err := svc.ListForUser(user.ID, day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservations,
	})
}

// CancelReservation handles DELETE /api/v1/reservations/:id - cancels a
// reservation owned by the signed-in user, tearing down the linked unpaid
// order and freeing the table
func CancelReservation(c *gin.Context) {
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
	requester := services.Requester{UserID: user.ID, Role: user.Role}
	if err := svc.CancelReservation(uint(reservationID), requester); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ยกเลิกการจองเรียบร้อยแล้ว",
	})
}

// ListAllReservations handles GET /api/v1/cashier/reservations - every
// reservation, for the cashier dashboard
func ListAllReservations(c *gin.Context) {
	svc := services.NewReservationService(config.GetDB())
	reservations, err := svc.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservations,
	})
}

// CancelReservationByTable handles DELETE /api/v1/cashier/tables/:tableNumber/reservation -
// cashier cancellation of whatever open reservation holds the table
func CancelReservationByTable(c *gin.Context) {
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

	tableNumber, err := strconv.Atoi(c.Param("tableNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid table number",
			},
		})
		return
	}

	svc := services.NewCancellationService(config.GetDB())
	requester := services.Requester{UserID: user.ID, Role: user.Role}
	if err := svc.CancelReservationByTable(tableNumber, requester); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ยกเลิกการจองเรียบร้อยแล้ว",
	})
}
