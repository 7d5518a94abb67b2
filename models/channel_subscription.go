package models

import (
	"time"

	"github.com/google/uuid"
)

// Đăng ký theo kênh (giống YouTube): một subscription mở toàn bộ video của creator.
// Cặp (subscriber, creator) là unique; chặn tự đăng ký nằm ở handler.
type ChannelSubscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_creator" json:"subscriber_id"`
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_creator" json:"creator_id"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`

	Subscriber User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"subscriber,omitempty"`
	Creator    User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}
