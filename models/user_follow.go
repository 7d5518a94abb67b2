package models

import (
	"time"

	"github.com/google/uuid"
)

// Quan hệ theo dõi một chiều (follower -> followee, không bắt buộc theo lại)
type UserFollow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"followee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"followee,omitempty"`
}
