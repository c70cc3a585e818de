package models

import "time"

// Event is a schedule entry on the wedding day (ceremony, dinner, party).
type Event struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	WeddingID   uint       `json:"wedding_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
