package paymentControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/config"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
)

type InitiateRequest struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

type SuccessRequest struct {
	PaymentID         uint   `json:"payment_id" binding:"required"`
	ProviderPaymentID string `json:"provider_payment_id"`
}

type FailedRequest struct {
	PaymentID uint `json:"payment_id" binding:"required"`
}

// POST /payments/initiate
func InitiateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		payment, err := InitiatePayment(db, req.OrderID, req.Provider, middleware.Email(c), audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"payment_id": payment.ID,
			"status":     payment.Status,
			"amount":     payment.Amount,
			"provider":   payment.Provider,
		})
	}
}

// POST /payments/success
func SuccessHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SuccessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err := MarkPaymentSuccess(db, cfg.StrictConfirm, req.PaymentID, req.ProviderPaymentID,
			middleware.Email(c), string(middleware.Role(c)), audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment successful", "payment_id": req.PaymentID})
	}
}

// POST /payments/failed
func FailedHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FailedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := MarkPaymentFailed(db, req.PaymentID, middleware.Email(c), audit.ClientIP(c)); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment failed", "payment_id": req.PaymentID})
	}
}

// GET /payments/order/:order_id
func GetByOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		payment, err := GetPaymentByOrder(db, uint(orderID))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// PUT /admin/payments/cod/:payment_id/paid
func MarkCodPaidHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, err := strconv.ParseUint(c.Param("payment_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
			return
		}

		err = MarkPaymentSuccess(db, cfg.StrictConfirm, uint(paymentID), "COD-COLLECTED",
			middleware.Email(c), string(middleware.Role(c)), audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "COD payment marked as PAID", "payment_id": paymentID})
	}
}
