package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
	adminControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/admin"
	invoiceControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/invoice"
	orderControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/order"
	paymentControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/payment"
	productControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/product"
	refundControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/refund"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
)

// SetupAdminRoutes registers the back-office API. Every route requires a
// valid token with the ADMIN role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireAdmin)
	{
		admin.GET("/dashboard", adminControllers.DashboardHandler(db))

		admin.GET("/products", productControllers.AdminListProductsHandler(db))
		admin.POST("/products", productControllers.CreateProductHandler(db))
		admin.PUT("/products/:id", productControllers.UpdateProductHandler(db))
		admin.DELETE("/products/:id", productControllers.DeactivateProductHandler(db))
		admin.GET("/products/export-excel", productControllers.ExportProductsToExcel(db))
		admin.POST("/products/import-excel", productControllers.ImportProductsFromExcel(db))

		admin.GET("/categories", productControllers.AdminListCategoriesHandler(db))
		admin.POST("/categories", productControllers.CreateCategoryHandler(db))
		admin.PUT("/categories/:id", productControllers.UpdateCategoryHandler(db))
		admin.DELETE("/categories/:id", productControllers.DeactivateCategoryHandler(db))

		admin.GET("/orders", orderControllers.ListAllOrdersHandler(db))
		admin.GET("/orders/ws", events.OrdersFeedHandler)
		admin.GET("/orders/:order_id", orderControllers.GetOrderHandler(db))
		admin.GET("/orders/:order_id/details", orderControllers.GetOrderDetailsHandler(db))
		admin.PUT("/orders/:order_id/status", orderControllers.UpdateStatusHandler(db))
		admin.POST("/orders/:order_id/cancel", orderControllers.AdminCancelHandler(db))
		admin.GET("/orders/:order_id/invoice", invoiceControllers.AdminInvoiceHandler(db))
		admin.PUT("/payments/cod/:payment_id/paid", paymentControllers.MarkCodPaidHandler(db, cfg))

		admin.POST("/refunds/initiate", refundControllers.InitiateHandler(db))
		admin.POST("/refunds/:refund_id/success", refundControllers.SuccessHandler(db))
		admin.POST("/refunds/:refund_id/failed", refundControllers.FailedHandler(db))

		admin.GET("/users", adminControllers.ListUsersHandler(db))
		admin.GET("/users/:id", adminControllers.GetUserHandler(db))
		admin.PUT("/users/:id/toggle-status", adminControllers.ToggleUserStatusHandler(db))
		admin.DELETE("/users/:id", adminControllers.DeleteUserHandler(db))

		admin.GET("/audit-logs", adminControllers.ListAuditLogsHandler(db))
	}
}
