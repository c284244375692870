package adminControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

// GET /admin/audit-logs
// Read-only view of the action trail, newest first, with optional
// entity_type/action filters and a capped limit.
func ListAuditLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.AuditLog{})
		if entityType := c.Query("entity_type"); entityType != "" {
			query = query.Where("entity_type = ?", entityType)
		}
		if action := c.Query("action"); action != "" {
			query = query.Where("action = ?", action)
		}

		limit := 100
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
				limit = parsed
			}
		}

		var logs []models.AuditLog
		if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
	}
}
