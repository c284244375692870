package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
	cartControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/cart"
	invoiceControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/invoice"
	orderControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/order"
	paymentControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/payment"
	userControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/user"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
)

// SetupUserRoutes registers everything a logged-in customer can do.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	user := r.Group("/user")
	user.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		user.GET("/profile", userControllers.GetProfileHandler(db))
		user.PUT("/profile", userControllers.UpdateProfileHandler(db))

		user.POST("/cart", cartControllers.AddToCartHandler(db))
		user.GET("/cart", cartControllers.GetCartHandler(db))
		user.PUT("/cart/:item_id", cartControllers.UpdateQuantityHandler(db))
		user.DELETE("/cart/:item_id", cartControllers.RemoveItemHandler(db))
		user.DELETE("/cart", cartControllers.ClearCartHandler(db))

		user.POST("/checkout", orderControllers.CheckoutHandler(db))
		user.GET("/orders", orderControllers.ListMyOrdersHandler(db))
		user.GET("/orders/:order_id", orderControllers.GetMyOrderHandler(db))
		user.POST("/orders/:order_id/cancel", orderControllers.UserCancelHandler(db))
		user.GET("/orders/:order_id/invoice", invoiceControllers.UserInvoiceHandler(db))
	}

	payments := r.Group("/payments")
	payments.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		payments.POST("/initiate", paymentControllers.InitiateHandler(db))
		payments.POST("/success", paymentControllers.SuccessHandler(db, cfg))
		payments.POST("/failed", paymentControllers.FailedHandler(db))
		payments.GET("/order/:order_id", paymentControllers.GetByOrderHandler(db))
	}
}
