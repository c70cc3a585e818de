package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// SuperAdminApplication is a request to become a tenant owner. Status moves
// from pending to exactly one terminal state; approval promotes the matching
// user to super_admin.
type SuperAdminApplication struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	BusinessName  string `json:"business_name" gorm:"not null"`
	ContactPerson string `json:"contact_person" gorm:"not null"`
	Email         string `json:"email" gorm:"index;not null"`
	Phone         string `json:"phone"`
	Plan          string `json:"plan" gorm:"default:'basic'"`
	Message       string `json:"message" gorm:"type:text"`

	Status          string     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentVerified bool       `json:"payment_verified" gorm:"default:false"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewNotes     string     `json:"review_notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
