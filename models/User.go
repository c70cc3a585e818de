package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values. application_admin is its own tier for reviewing super-admin
// applications, it does not inherit super_admin.
const (
	RoleGuest            = "guest"
	RoleAdmin            = "admin"
	RoleSuperAdmin       = "super_admin"
	RoleApplicationAdmin = "application_admin"
)

type User struct {
	gorm.Model
	AuthID       string `json:"authID" gorm:"index"` // identity-provider subject, empty for local guest accounts
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	AvatarURL    string `json:"avatarURL"`
	Role         string `json:"role" gorm:"type:varchar(32);default:guest;index"`
	IsActive     *bool  `json:"isActive" gorm:"default:true"`

	// Subscription block, only meaningful for super_admins
	SubscriptionPlan      string     `json:"subscriptionPlan"`
	SubscriptionStatus    string     `json:"subscriptionStatus"` // active, past_due, cancelled
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt"`
}

func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
