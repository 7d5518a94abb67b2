package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // người nhận
	Title   string    `gorm:"size:255;not null" json:"title"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Type    string    `gorm:"size:50" json:"type"` // like | comment | subscribe
	IsRead  bool      `gorm:"default:false" json:"is_read"`

	VideoID   *uuid.UUID `gorm:"type:uuid" json:"video_id,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid" json:"comment_id,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
