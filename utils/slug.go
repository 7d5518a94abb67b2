package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
)

// UniqueVideoSlug sinh slug từ title, nếu trùng thì gắn hậu tố -1, -2,...
// cho đến khi không còn đụng video nào trong bảng.
func UniqueVideoSlug(db *gorm.DB, title string) (string, error) {
	base := slug.Make(title)
	candidate := base

	for counter := 1; ; counter++ {
		var count int64
		if err := db.Model(&models.Video{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
