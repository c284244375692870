package refundControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

type InitiateRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

type SuccessRequest struct {
	ProviderRefundID string `json:"provider_refund_id"`
}

// POST /admin/refunds/initiate
func InitiateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		refund, err := InitiateRefund(db, req.OrderID, middleware.Email(c), string(models.RoleAdmin), audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Refund initiated",
			"refund_id": refund.ID,
			"amount":    refund.Amount,
			"status":    refund.Status,
		})
	}
}

// POST /admin/refunds/:refund_id/success
func SuccessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		refundID, err := strconv.ParseUint(c.Param("refund_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refund id"})
			return
		}

		var req SuccessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := MarkRefundSuccess(db, uint(refundID), req.ProviderRefundID); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Refund successful"})
	}
}

// POST /admin/refunds/:refund_id/failed
func FailedHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		refundID, err := strconv.ParseUint(c.Param("refund_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refund id"})
			return
		}

		if err := MarkRefundFailed(db, uint(refundID)); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Refund failed"})
	}
}
