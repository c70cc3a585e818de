package models

import "time"

// InviteLink lets guests join a wedding. The token itself is a signed JWT;
// the row tracks expiry and usage so links can be capped and audited.
type InviteLink struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	WeddingID uint       `json:"wedding_id" gorm:"index;not null"`
	Token     string     `json:"token" gorm:"uniqueIndex;not null"`
	CreatedBy uint       `json:"created_by"`
	Label     string     `json:"label"` // e.g. "bride's side", printed on table cards
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   int        `json:"max_uses" gorm:"default:0"` // 0 = unlimited
	Uses      int        `json:"uses" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
}

func (l *InviteLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

func (l *InviteLink) Exhausted() bool {
	return l.MaxUses > 0 && l.Uses >= l.MaxUses
}
