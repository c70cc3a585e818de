package models

import "time"

// Question is a guestbook prompt the couple asks their guests.
type Question struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WeddingID uint      `json:"wedding_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"not null"`
	Position  int       `json:"position" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Answer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	QuestionID uint      `json:"question_id" gorm:"index:idx_answer_question_user,unique;not null"`
	Question   Question  `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	WeddingID  uint      `json:"wedding_id" gorm:"index;not null"`
	UserID     uint      `json:"user_id" gorm:"index:idx_answer_question_user,unique;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
