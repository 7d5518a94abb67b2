package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/ws"
)

type CreateCommentInput struct {
	Content string `json:"content" form:"content" binding:"required"`
}

// POST /comment/:video_id
func CreateComment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")
	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id không hợp lệ"})
		return
	}

	var input CreateCommentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nội dung bình luận không được để trống"})
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nội dung bình luận không được để trống"})
		return
	}
	// Đếm theo rune, không theo byte
	if utf8.RuneCountInString(content) > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bình luận tối đa 1000 ký tự"})
		return
	}

	var video models.Video
	if err := db.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video không tồn tại"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	comment := models.Comment{
		ID:      uuid.New(),
		VideoID: videoID,
		UserID:  userUUID,
		Content: content,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo bình luận"})
		return
	}

	// Tên hiển thị ưu tiên bản ghi vừa preload, hỏng thì dùng username trong context
	username := c.GetString("username")
	avatarURL := ""
	if err := db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err == nil && comment.User.Username != "" {
		username = comment.User.Username
		avatarURL = comment.User.AvatarURL
	}

	// Đẩy bình luận mới tới những ai đang xem video này
	payload, merr := json.Marshal(gin.H{
		"event": "new_comment",
		"comment": gin.H{
			"id":         comment.ID,
			"content":    comment.Content,
			"created_at": comment.CreatedAt,
			"user": gin.H{
				"id":         comment.UserID,
				"username":   username,
				"avatar_url": avatarURL,
			},
		},
	})
	if merr == nil {
		ws.H.Broadcast(videoID.String(), payload)
	}

	if video.CreatorID != userUUID {
		notifyUser(db, video.CreatorID,
			"Bình luận mới trên video của bạn",
			username+" đã bình luận về \""+video.Title+"\"",
			"comment", &video.ID, &comment.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đã thêm bình luận",
		"comment": gin.H{
			"id":         comment.ID,
			"content":    comment.Content,
			"created_at": comment.CreatedAt,
			"user": gin.H{
				"id":       comment.UserID,
				"username": username,
			},
		},
	})
}

// GET /api/videos/:id/comments — mới nhất trước
func GetComments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id không hợp lệ"})
		return
	}

	var comments []models.Comment
	if err := db.Preload("User").Where("video_id = ?", videoID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy bình luận"})
		return
	}

	items := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		items = append(items, gin.H{
			"id":         cm.ID,
			"content":    cm.Content,
			"created_at": cm.CreatedAt,
			"user": gin.H{
				"id":         cm.User.ID,
				"username":   cm.User.Username,
				"avatar_url": cm.User.AvatarURL,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": items,
		"count":    len(items),
	})
}

// DELETE /api/comments/:id — tác giả bình luận hoặc chủ video mới được xóa
func DeleteComment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id không hợp lệ"})
		return
	}

	var comment models.Comment
	if err := db.Preload("Video").First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bình luận"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	if comment.UserID.String() != userIDStr && comment.Video.CreatorID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xóa bình luận này"})
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa bình luận"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa bình luận"})
}
