package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"size:150;not null" json:"email"`
	Password string    `gorm:"type:text;not null" json:"-"`
	FullName string    `gorm:"size:150" json:"full_name"`

	// Vai trò: mọi user là student mặc định, is_creator bật khi upload video đầu tiên
	IsCreator bool `gorm:"default:false;index" json:"is_creator"`
	IsStudent bool `gorm:"default:true" json:"is_student"`

	Bio       string `gorm:"size:500" json:"bio"`
	AvatarURL string `gorm:"type:text" json:"avatar_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Videos   []Video   `gorm:"foreignKey:CreatorID" json:"videos,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

// DisplayName trả về họ tên đầy đủ, nếu trống thì dùng username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
