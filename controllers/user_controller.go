package controllers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/utils"
)

// GET /api/user/profile — hồ sơ của chính mình
func GetProfile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var user models.User
	if err := db.First(&user, "id = ?", userIDStr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	var videoCount, subscriptionCount, commentCount int64
	db.Model(&models.Video{}).Where("creator_id = ?", user.ID).Count(&videoCount)
	db.Model(&models.ChannelSubscription{}).Where("subscriber_id = ?", user.ID).Count(&subscriptionCount)
	db.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"full_name":    user.FullName,
			"display_name": user.DisplayName(),
			"bio":          user.Bio,
			"avatar_url":   user.AvatarURL,
			"is_creator":   user.IsCreator,
			"is_student":   user.IsStudent,
			"created_at":   user.CreatedAt,
		},
		"video_count":        videoCount,
		"subscription_count": subscriptionCount,
		"comment_count":      commentCount,
	})
}

// PUT /api/user/profile — cập nhật bio, họ tên, avatar (multipart)
func UpdateProfile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var user models.User
	if err := db.First(&user, "id = ?", userIDStr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	updates := map[string]interface{}{}

	if fullName, ok := c.GetPostForm("full_name"); ok {
		updates["full_name"] = strings.TrimSpace(fullName)
	}
	if bio, ok := c.GetPostForm("bio"); ok {
		bio = strings.TrimSpace(bio)
		if utf8.RuneCountInString(bio) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bio tối đa 500 ký tự"})
			return
		}
		updates["bio"] = bio
	}

	if avatar, err := c.FormFile("avatar"); err == nil {
		if err := utils.ValidateImageExt(avatar.Filename); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		url, err := utils.UploadAvatarToSupabase(avatar, user.ID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh đại diện"})
			return
		}
		updates["avatar_url"] = url
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có gì để cập nhật"})
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật hồ sơ"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã cập nhật hồ sơ"})
}

// GET /api/creators/:creator_id — trang công khai của một creator
func GetCreatorProfile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	creatorID, err := uuid.Parse(c.Param("creator_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator_id không hợp lệ"})
		return
	}

	var creator models.User
	if err := db.First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy creator"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	var videos []models.Video
	if err := db.Preload("Creator").Where("creator_id = ?", creatorID).
		Order("uploaded_at DESC").Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	var subscriberCount, followerCount int64
	db.Model(&models.ChannelSubscription{}).Where("creator_id = ?", creatorID).Count(&subscriberCount)
	db.Model(&models.UserFollow{}).Where("followee_id = ?", creatorID).Count(&followerCount)

	items := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoJSON(v, likeCountFor(db, v.ID)))
	}

	c.JSON(http.StatusOK, gin.H{
		"creator": gin.H{
			"id":           creator.ID,
			"username":     creator.Username,
			"display_name": creator.DisplayName(),
			"bio":          creator.Bio,
			"avatar_url":   creator.AvatarURL,
			"is_creator":   creator.IsCreator,
		},
		"subscriber_count": subscriberCount,
		"follower_count":   followerCount,
		"videos":           items,
	})
}
