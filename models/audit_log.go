package models

import "time"

// AuditLog rows are append-only. They are never updated; the only delete
// path is the cascade that removes a user's rows together with the user.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"index" json:"action"`
	EntityType  string    `gorm:"index" json:"entity_type"`
	EntityID    uint      `json:"entity_id"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	PerformedBy string    `gorm:"index" json:"performed_by"`
	Role        string    `json:"role"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}
