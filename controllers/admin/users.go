package adminControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

// GET /admin/users
// Lists customers only; admin accounts are not exposed here.
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("role <> ?", models.RoleAdmin).Order("created_at DESC").Find(&users).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

// GET /admin/users/:id
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			apperr.Respond(c, apperr.NotFound("User not found"))
			return
		}
		if user.IsAdmin() {
			apperr.Respond(c, apperr.Forbidden("Cannot access admin user details"))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /admin/users/:id/toggle-status
func ToggleUserStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			apperr.Respond(c, apperr.NotFound("User not found"))
			return
		}
		if user.IsAdmin() {
			apperr.Respond(c, apperr.Forbidden("Cannot modify admin users"))
			return
		}

		user.Active = !user.Active
		if err := db.Save(&user).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "active": user.Active})
	}
}

// DeleteUser removes a customer and everything they own: order items,
// payments, orders, cart items, cart, and their audit rows, all in one
// transaction.
func DeleteUser(db *gorm.DB, userID uint) error {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	if user.IsAdmin() {
		return apperr.Forbidden("Cannot delete admin users")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Where("user_id = ?", user.ID).Find(&orders).Error; err != nil {
			return err
		}

		for _, order := range orders {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			var payment models.Payment
			err := tx.Where("order_id = ?", order.ID).First(&payment).Error
			if err == nil {
				if err := tx.Where("payment_id = ?", payment.ID).Delete(&models.Refund{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&payment).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}

		var cart models.Cart
		err := tx.Where("user_id = ?", user.ID).First(&cart).Error
		if err == nil {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("performed_by = ?", user.Email).Delete(&models.AuditLog{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}

// DELETE /admin/users/:id
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		if err := DeleteUser(db, uint(id)); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "user_id": id})
	}
}
