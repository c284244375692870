package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
	refundControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/refund"
)

// Actor identifies who is cancelling and from where.
type Actor struct {
	UserID uint
	Email  string
	Role   models.Role
	IP     string
}

func cancellableBy(status models.OrderStatus, role models.Role) error {
	if status == models.OrderStatusCancelled {
		return apperr.InvalidState("Order already cancelled")
	}
	if role == models.RoleAdmin {
		if status == models.OrderStatusDelivered {
			return apperr.InvalidState("Delivered orders cannot be cancelled")
		}
		return nil
	}
	switch status {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCompleted:
		return apperr.InvalidState("Order cannot be cancelled at this stage")
	}
	return nil
}

// Cancel is the single cancellation path for both users and admins.
// Users may only cancel their own orders and only before shipment;
// admins may cancel anything not yet delivered. When the order carries a
// successful online payment, an explicit refund is opened in the same
// transaction — cancellation never flips a payment status on its own.
func Cancel(db *gorm.DB, orderID uint, actor Actor) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found")
			}
			return err
		}

		if actor.Role != models.RoleAdmin && order.UserID != actor.UserID {
			return apperr.Unauthorized("Unauthorized to cancel this order")
		}
		if err := cancellableBy(order.Status, actor.Role); err != nil {
			return err
		}

		oldStatus := order.Status
		order.Status = models.OrderStatusCancelled
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if err := audit.Log(tx, audit.Entry{
			Action:      "ORDER_CANCELLED",
			EntityType:  "ORDER",
			EntityID:    order.ID,
			OldValue:    string(oldStatus),
			NewValue:    string(models.OrderStatusCancelled),
			PerformedBy: actor.Email,
			Role:        string(actor.Role),
			IPAddress:   actor.IP,
		}); err != nil {
			return err
		}

		// Refund-eligible: online payment that already succeeded.
		var payment models.Payment
		err := tx.Where("order_id = ?", order.ID).First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if payment.Method == models.PaymentMethodCOD || payment.Status != models.PaymentStatusSuccess {
			return nil
		}

		_, err = refundControllers.Create(tx, &payment, actor.Email, string(actor.Role), actor.IP)
		return err
	})
	if err != nil {
		return err
	}

	events.PublishOrderStatus(orderID, models.OrderStatusCancelled)
	return nil
}

// POST /user/orders/:order_id/cancel
func UserCancelHandler(db *gorm.DB) gin.HandlerFunc {
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

		actor := Actor{
			UserID: userID,
			Email:  middleware.Email(c),
			Role:   models.RoleUser,
			IP:     audit.ClientIP(c),
		}
		if err := Cancel(db, orderID, actor); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": models.OrderStatusCancelled, "message": "Order cancelled successfully"})
	}
}

// POST /admin/orders/:order_id/cancel
func AdminCancelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		actor := Actor{
			Email: middleware.Email(c),
			Role:  models.RoleAdmin,
			IP:    audit.ClientIP(c),
		}
		if err := Cancel(db, orderID, actor); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": models.OrderStatusCancelled, "message": "Order cancelled successfully"})
	}
}
