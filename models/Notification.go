package models

import "time"

const (
	NotificationMediaApproved       = "media_approved"
	NotificationMediaRejected       = "media_rejected"
	NotificationApplicationReviewed = "application_reviewed"
	NotificationAdminAdded          = "admin_added"
)

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	WeddingID *uint     `json:"wedding_id" gorm:"index"`
	Kind      string    `json:"kind" gorm:"type:varchar(40)"`
	Title     string    `json:"title"`
	Body      string    `json:"body" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}
