package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index" json:"video_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}
