package models

import (
	"encoding/json"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Wedding is a tenant workspace addressed by a globally unique subdomain.
type Wedding struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Subdomain     string         `json:"subdomain" gorm:"uniqueIndex;not null"`
	Code          string         `json:"code" gorm:"uniqueIndex"`
	Date          *time.Time     `json:"date"`
	Location      string         `json:"location"`
	CoverImageURL string         `json:"cover_image_url"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	SuperAdminID  uint           `json:"super_admin_id" gorm:"index;not null"`
	SuperAdmin    User           `json:"-" gorm:"foreignKey:SuperAdminID"`
	AdminIDs      datatypes.JSON `json:"admin_ids"` // JSON array of user ids

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// AdminIDList decodes the stored admin id set, never nil.
func (w *Wedding) AdminIDList() []uint {
	var ids []uint
	if w.AdminIDs != nil {
		json.Unmarshal(w.AdminIDs, &ids)
	}
	return ids
}

// IsAdministeredBy reports whether the user owns or administers the wedding.
func (w *Wedding) IsAdministeredBy(userID uint) bool {
	if w.SuperAdminID == userID {
		return true
	}
	return slices.Contains(w.AdminIDList(), userID)
}

// WeddingMember links a user to a wedding. Guests are members too, so
// membership is the visibility gate for everything wedding-scoped.
type WeddingMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WeddingID uint      `json:"wedding_id" gorm:"index:idx_member_wedding_user,unique;not null"`
	UserID    uint      `json:"user_id" gorm:"index:idx_member_wedding_user,unique;not null"`
	GuestName string    `json:"guest_name"`
	JoinedVia string    `json:"joined_via"` // invite token id, empty for owner/admins
	CreatedAt time.Time `json:"created_at"`
}
