package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/services"
)

// respondError translates a service-layer error into the JSON envelope the
// frontend expects. Table conflicts use a dedicated shape so the client can
// highlight the busy tables.
func respondError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "tables busy",
			"tableIds": conflict.TableIDs,
		})
		return
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    validation.Code,
				"message": validation.Message,
			},
		})
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    notFound.Entity + "_NOT_FOUND",
				"message": notFound.Message,
			},
		})
		return
	}

	var policy *services.PolicyViolation
	if errors.As(err, &policy) {
		status := http.StatusBadRequest
		if policy.Code == services.PolicyForbidden {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    policy.Code,
				"message": policy.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Something went wrong. Please try again.",
		},
	})
}
