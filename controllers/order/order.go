package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies an admin status change. The lifecycle value
// is validated but the transition itself is not constrained; marking an
// order DELIVERED settles an attached COD payment in the same
// transaction.
func UpdateOrderStatus(db *gorm.DB, orderID uint, newStatus models.OrderStatus, adminEmail, ip string) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, apperr.Validation("Invalid order status")
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found")
			}
			return err
		}

		oldStatus := order.Status
		order.Status = newStatus
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if newStatus == models.OrderStatusDelivered {
			var payment models.Payment
			err := tx.Where("order_id = ?", order.ID).First(&payment).Error
			if err == nil && payment.Method == models.PaymentMethodCOD {
				payment.Status = models.PaymentStatusCodPaid
				if err := tx.Save(&payment).Error; err != nil {
					return err
				}
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		return audit.Log(tx, audit.Entry{
			Action:      "ORDER_STATUS_CHANGED",
			EntityType:  "ORDER",
			EntityID:    order.ID,
			OldValue:    string(oldStatus),
			NewValue:    string(newStatus),
			PerformedBy: adminEmail,
			Role:        string(models.RoleAdmin),
			IPAddress:   ip,
		})
	})
	if err != nil {
		return nil, err
	}

	events.PublishOrderStatus(order.ID, order.Status)
	return &order, nil
}

// GetOrdersByUser returns the user's order history, newest first.
func GetOrdersByUser(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// -------- Handlers --------

// GET /user/orders
func ListMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orders, err := GetOrdersByUser(db, userID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// GET /admin/orders
func ListAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("User").Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// GET /user/orders/:order_id
func GetMyOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := parseID(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			apperr.Respond(c, apperr.NotFound("Order not found"))
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders/:order_id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Items").First(&order, orderID).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders/:order_id/details
func GetOrderDetailsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Items").First(&order, orderID).Error; err != nil {
			apperr.Respond(c, err)
			return
		}

		var payment *models.Payment
		var p models.Payment
		if err := db.Where("order_id = ?", order.ID).First(&p).Error; err == nil {
			payment = &p
		}

		details := gin.H{
			"order_id":     order.ID,
			"order_ref":    order.OrderRef,
			"order_status": order.Status,
			"total_amount": order.TotalAmount,
			"items":        order.Items,
			"shipping_address": gin.H{
				"full_name":    order.FullName,
				"phone":        order.Phone,
				"address_line": order.AddressLine,
				"city":         order.City,
				"state":        order.State,
				"postal_code":  order.PostalCode,
			},
			"created_at": order.CreatedAt,
			"updated_at": order.UpdatedAt,
		}
		if order.User != nil {
			details["user"] = gin.H{
				"user_id": order.User.ID,
				"name":    order.User.FullName,
				"email":   order.User.Email,
				"phone":   order.User.Phone,
			}
		}
		if payment != nil {
			details["payment"] = gin.H{
				"payment_id":     payment.ID,
				"method":         payment.Method,
				"status":         payment.Status,
				"amount":         payment.Amount,
				"transaction_id": payment.TransactionID,
			}
		}
		c.JSON(http.StatusOK, details)
	}
}

// PUT /admin/orders/:order_id/status
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := UpdateOrderStatus(db, orderID, models.OrderStatus(req.Status), middleware.Email(c), audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":   order.ID,
			"new_status": order.Status,
			"message":    "Order status updated",
		})
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}
