package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
	paytmControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/paytm"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
)

// SetupPaytmRoutes registers the Paytm gateway endpoints. The callback is
// unauthenticated because the gateway posts to it directly.
func SetupPaytmRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	paytm := r.Group("/paytm")
	{
		paytm.POST("/initiate", middleware.ValidateToken(cfg.JWTSecret), paytmControllers.InitiateHandler(db, cfg))
		paytm.POST("/callback", paytmControllers.CallbackHandler(db, cfg))
		paytm.GET("/gateway-url", paytmControllers.GatewayURLHandler(cfg))
	}
}
