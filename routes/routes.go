package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Public auth + catalog browsing (no middleware)
	SetupAuthRoutes(r, db, cfg)
	SetupPublicRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db, cfg)

	// Admin routes (JWT + ADMIN role)
	SetupAdminRoutes(r, db, cfg)

	// Paytm gateway (initiate is JWT-protected, callback is a public webhook)
	SetupPaytmRoutes(r, db, cfg)
}
