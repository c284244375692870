// Package audit is the append-only action trail. Entries are written on
// the same transaction as the state change they describe, so both commit
// or both roll back.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

type Entry struct {
	Action      string
	EntityType  string
	EntityID    uint
	OldValue    string
	NewValue    string
	PerformedBy string
	Role        string
	IPAddress   string
}

// Log appends one audit row on tx.
func Log(tx *gorm.DB, e Entry) error {
	if e.IPAddress == "" {
		e.IPAddress = "N/A"
	}
	row := models.AuditLog{
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		OldValue:    e.OldValue,
		NewValue:    e.NewValue,
		PerformedBy: e.PerformedBy,
		Role:        e.Role,
		IPAddress:   e.IPAddress,
		CreatedAt:   time.Now(),
	}
	return tx.Create(&row).Error
}
