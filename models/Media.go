package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Media is an uploaded photo or video. Unapproved media is only visible to
// wedding admins and the uploader until moderation acts on it.
type Media struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	WeddingID  uint           `json:"wedding_id" gorm:"index;not null"`
	Wedding    Wedding        `json:"-" gorm:"foreignKey:WeddingID;constraint:OnDelete:CASCADE"`
	UploadedBy uint           `json:"uploaded_by" gorm:"index;not null"`
	Type       string         `json:"type" gorm:"type:varchar(10);default:'image'"`
	URL        string         `json:"url" gorm:"not null"`
	PublicID   string         `json:"public_id"` // storage provider identifier, used for destroy and transformations
	Caption    string         `json:"caption"`
	Tags       datatypes.JSON `json:"tags"`

	IsApproved bool       `json:"is_approved" gorm:"default:false;index"`
	ApprovedBy *uint      `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
