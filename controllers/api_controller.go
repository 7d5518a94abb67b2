package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
)

const apiTimeLayout = "2006-01-02 15:04:05"

// GET /api/videos/ — tối đa 20 video mới nhất
func APIVideosList(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var videos []models.Video
	if err := db.Preload("Creator").Order("uploaded_at DESC").Limit(20).
		Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi truy vấn DB"})
		return
	}

	items := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		items = append(items, gin.H{
			"id":          v.ID,
			"title":       v.Title,
			"description": v.Description,
			"creator":     v.Creator.Username,
			"views":       v.Views,
			"likes":       likeCountFor(db, v.ID),
			"uploaded_at": v.UploadedAt.Format(apiTimeLayout),
			"video_url":   v.VideoURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"videos":  items,
	})
}

// GET /api/videos/:id
func APIVideoDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		return
	}

	var video models.Video
	if err := db.Preload("Creator").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi truy vấn DB"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"video": gin.H{
			"id":          video.ID,
			"title":       video.Title,
			"description": video.Description,
			"creator": gin.H{
				"id":         video.Creator.ID,
				"username":   video.Creator.Username,
				"is_creator": video.Creator.IsCreator,
			},
			"views":       video.Views,
			"likes":       likeCountFor(db, video.ID),
			"uploaded_at": video.UploadedAt.Format(apiTimeLayout),
			"video_url":   video.VideoURL,
		},
	})
}

// GET /api/user/stats/ — thống kê của chính user đang đăng nhập
func APIUserStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var user models.User
	if err := db.First(&user, "id = ?", userIDStr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Lỗi truy vấn DB"})
		return
	}

	var videoCount int64
	db.Model(&models.Video{}).Where("creator_id = ?", user.ID).Count(&videoCount)

	var totalViews int64
	db.Model(&models.Video{}).Where("creator_id = ?", user.ID).
		Select("COALESCE(SUM(views), 0)").Scan(&totalViews)

	var subscriptionsCount int64
	db.Model(&models.ChannelSubscription{}).Where("subscriber_id = ?", user.ID).Count(&subscriptionsCount)

	var commentsCount int64
	db.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentsCount)

	stats := gin.H{
		"username":              user.Username,
		"is_creator":            user.IsCreator,
		"uploaded_videos_count": videoCount,
		"total_views":           totalViews,
		"subscriptions_count":   subscriptionsCount,
		"comments_count":        commentsCount,
	}

	// Chỉ creator mới có subscribers_count
	if user.IsCreator {
		var subscribersCount int64
		db.Model(&models.ChannelSubscription{}).Where("creator_id = ?", user.ID).Count(&subscribersCount)
		stats["subscribers_count"] = subscribersCount
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user_stats": stats,
	})
}
