package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
)

// ListTables handles GET /api/v1/tables - lists all tables with their
// reservations around the selected time (defaults to now)
func ListTables(c *gin.Context) {
	selectedTime := time.Now()
	if raw := c.Query("time"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "time must be RFC3339",
				},
			})
			return
		}
		selectedTime = parsed
	}

	svc := services.NewTableService(config.GetDB())
	tables, err := svc.List(selectedTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tables,
	})
}

// GetTable handles GET /api/v1/tables/:tableNumber
func GetTable(c *gin.Context) {
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

	svc := services.NewTableService(config.GetDB())
	table, err := svc.Get(tableNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// UpdateTableStatusRequest represents the request body for a status change
type UpdateTableStatusRequest struct {
	Status models.TableStatus `json:"status" binding:"required"`
}

// UpdateTableStatus handles PATCH /api/v1/cashier/tables/:tableNumber/status -
// cashier override of a table's state. Freeing a table also completes its
// open reservations.
func UpdateTableStatus(c *gin.Context) {
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

	var req UpdateTableStatusRequest
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

	svc := services.NewTableService(config.GetDB())
	table, err := svc.SetStatus(tableNumber, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}
