package models

import "time"

// AuditLog records privileged mutations (role changes, moderation,
// application reviews) with before/after snapshots.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminUserID  uint      `json:"admin_user_id" gorm:"index"`
	Action       string    `json:"action" gorm:"index"`
	ResourceType string    `json:"resource_type"`
	ResourceID   uint      `json:"resource_id"`
	BeforeJSON   string    `json:"before_json" gorm:"type:text"`
	AfterJSON    string    `json:"after_json" gorm:"type:text"`
	IPAddress    string    `json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
}
