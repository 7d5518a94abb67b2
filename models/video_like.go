package models

import (
	"time"

	"github.com/google/uuid"
)

// Khóa chính kép (user_id, video_id): mỗi user chỉ like một video một lần,
// ràng buộc nằm ở tầng lưu trữ chứ không chỉ ở handler
type VideoLike struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"video_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User  User  `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Video Video `gorm:"constraint:OnDelete:CASCADE;" json:"video,omitempty"`
}
