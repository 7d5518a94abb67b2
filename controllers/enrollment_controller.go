package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
)

// GET /api/user/enrollments — dữ liệu enrollment cũ, chỉ đọc.
// Các flow hiện tại không ghi thêm bản ghi nào vào bảng này.
func GetEnrollments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var enrollments []models.Subscription
	if err := db.Preload("Video").Where("learner_id = ?", userIDStr).
		Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách enrollment"})
		return
	}

	items := make([]gin.H, 0, len(enrollments))
	for _, e := range enrollments {
		items = append(items, gin.H{
			"id":          e.ID,
			"enrolled_at": e.EnrolledAt,
			"completed":   e.Completed,
			"video": gin.H{
				"id":    e.Video.ID,
				"title": e.Video.Title,
				"slug":  e.Video.Slug,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": items,
		"count":       len(items),
	})
}
