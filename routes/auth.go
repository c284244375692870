package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
	authControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/auth"
	productControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/product"
)

// SetupAuthRoutes registers the public authentication endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(db, cfg.JWTSecret))
		authGroup.POST("/login", authControllers.Login(db, cfg.JWTSecret))
	}
}

// SetupPublicRoutes registers unauthenticated catalog browsing.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productControllers.ListProductsHandler(db))
	r.GET("/products/:id", productControllers.GetProductHandler(db))
	r.GET("/categories", productControllers.ListCategoriesHandler(db))
}
