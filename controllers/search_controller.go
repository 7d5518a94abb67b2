package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
)

// GET /search?q=... — tìm theo tiêu đề, mô tả hoặc username của creator.
// Query rỗng trả về danh sách rỗng, không phải toàn bộ video.
func SearchVideos(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	query := strings.TrimSpace(c.Query("q"))

	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"query":         "",
			"results_count": 0,
			"videos":        []gin.H{},
		})
		return
	}

	// LOWER + LIKE để không phân biệt hoa thường trên mọi DB
	pattern := "%" + strings.ToLower(query) + "%"

	var videos []models.Video
	if err := db.Preload("Creator").
		Joins("JOIN users ON users.id = videos.creator_id").
		Where("LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ? OR LOWER(users.username) LIKE ?",
			pattern, pattern, pattern).
		Order("videos.uploaded_at DESC").
		Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi tìm kiếm"})
		return
	}

	items := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoJSON(v, likeCountFor(db, v.ID)))
	}

	c.JSON(http.StatusOK, gin.H{
		"query":         query,
		"results_count": len(items),
		"videos":        items,
	})
}
