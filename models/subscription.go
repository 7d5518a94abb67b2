package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription là cơ chế đăng ký theo từng video (cũ), đã được thay bằng
// ChannelSubscription. Giữ lại để bảo toàn dữ liệu lịch sử, luồng hiện tại
// không ghi bản ghi mới.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"learner_id"`
	VideoID    uuid.UUID `gorm:"type:uuid;not null;index" json:"video_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	Completed  bool      `gorm:"default:false" json:"completed"`

	Learner User  `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	Video   Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video"`
}
