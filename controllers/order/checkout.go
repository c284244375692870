package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
	paymentControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/payment"
)

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"` // ONLINE or COD
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	AddressLine   string `json:"address_line" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code" binding:"required"`
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout converts the user's cart into an order. Item names and prices
// come from the cart-line snapshots, not live products; the cart is
// cleared in the same transaction. COD checkouts create their payment
// (and confirm the order) atomically as well.
func Checkout(db *gorm.DB, userID uint, req CheckoutRequest, ip string) (*models.Order, error) {
	method := strings.ToUpper(req.PaymentMethod)
	if method != "COD" && method != "ONLINE" {
		return nil, apperr.Validation("payment_method must be ONLINE or COD")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.EmptyCart("Cart is empty")
			}
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.EmptyCart("Cart is empty")
		}

		var total float64
		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			total += item.Price * float64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Price:       item.Price,
				Quantity:    item.Quantity,
			})
		}

		order = models.Order{
			OrderRef:    generateOrderRef(),
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			FullName:    req.FullName,
			Phone:       req.Phone,
			AddressLine: req.AddressLine,
			City:        req.City,
			State:       req.State,
			PostalCode:  req.PostalCode,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		if err := audit.Log(tx, audit.Entry{
			Action:      "ORDER_CREATED",
			EntityType:  "ORDER",
			EntityID:    order.ID,
			NewValue:    string(models.OrderStatusPending),
			PerformedBy: user.Email,
			Role:        string(models.RoleUser),
			IPAddress:   ip,
		}); err != nil {
			return err
		}

		if method == "COD" {
			if _, err := paymentControllers.CreateCodPayment(tx, &order, user.Email, ip); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.PublishOrderStatus(order.ID, order.Status)
	return &order, nil
}

// POST /user/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, req, audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		if strings.EqualFold(req.PaymentMethod, "COD") {
			c.JSON(http.StatusOK, gin.H{
				"order_id":       order.ID,
				"order_ref":      order.OrderRef,
				"status":         order.Status,
				"payment_method": "COD",
				"message":        "Order placed with Cash On Delivery",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":       order.ID,
			"order_ref":      order.OrderRef,
			"status":         order.Status,
			"payment_method": "ONLINE",
			"message":        "Proceed to online payment",
		})
	}
}
