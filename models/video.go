package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index:idx_videos_creator_uploaded" json:"creator_id"`
	Title       string    `gorm:"size:200;not null;index" json:"title"`
	Slug        string    `gorm:"size:250;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	VideoURL    string    `gorm:"type:text;not null" json:"video_url"`
	Thumbnail   string    `gorm:"type:text" json:"thumbnail"`
	DurationSec *int      `json:"duration_sec,omitempty"`

	// Views tăng mỗi lần vào trang xem, không giảm
	Views int64 `gorm:"default:0;index" json:"views"`

	UploadedAt time.Time `gorm:"autoCreateTime;index:idx_videos_creator_uploaded;index" json:"uploaded_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Creator  User        `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Comments []Comment   `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes    []VideoLike `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}
