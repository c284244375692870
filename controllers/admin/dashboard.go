package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

// GET /admin/dashboard
func DashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userCount, orderCount, productCount int64
		if err := db.Model(&models.User{}).Where("role <> ?", models.RoleAdmin).Count(&userCount).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		if err := db.Model(&models.Product{}).Where("active = ?", true).Count(&productCount).Error; err != nil {
			apperr.Respond(c, err)
			return
		}

		// Revenue is the sum over settled payments.
		var revenue float64
		err := db.Model(&models.Payment{}).
			Where("status IN ?", []models.PaymentStatus{models.PaymentStatusSuccess, models.PaymentStatusCodPaid}).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&revenue).Error
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		var recentOrders []models.Order
		if err := db.Preload("User").Order("created_at DESC").Limit(10).Find(&recentOrders).Error; err != nil {
			apperr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users":         userCount,
			"orders":        orderCount,
			"products":      productCount,
			"revenue":       revenue,
			"recent_orders": recentOrders,
		})
	}
}
