package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/ws"
)

// Tạo notification rồi đẩy realtime qua websocket nếu user đang online.
// Lỗi ở đây không làm fail request gốc.
func notifyUser(db *gorm.DB, recipientID uuid.UUID, title, message, notifType string, videoID, commentID *uuid.UUID) {
	notif := models.Notification{
		ID:        uuid.New(),
		UserID:    recipientID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		VideoID:   videoID,
		CommentID: commentID,
	}
	if err := db.Create(&notif).Error; err != nil {
		return
	}

	payload, err := json.Marshal(gin.H{
		"event":        "notification",
		"notification": notif,
	})
	if err == nil {
		ws.H.BroadcastToUser(recipientID.String(), payload)
	}

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Count(&unread)
	ws.SendBadgeUpdate(recipientID.String(), unread)
}

// GET /api/notifications
func GetNotifications(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var notifs []models.Notification
	if err := db.Where("user_id = ?", userIDStr).
		Order("created_at DESC").Limit(50).Find(&notifs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy thông báo"})
		return
	}

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userIDStr, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifs,
		"unread_count":  unread,
	})
}

// GET /api/notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userIDStr, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{"unread_count": unread})
}

// POST /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id không hợp lệ"})
		return
	}

	now := time.Now()
	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notifID, userIDStr).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thông báo"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo"})
		return
	}

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userIDStr, false).
		Count(&unread)
	ws.SendBadgeUpdate(userIDStr, unread)

	c.JSON(http.StatusOK, gin.H{"message": "Đã đánh dấu đã đọc"})
}

// POST /api/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	now := time.Now()
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userIDStr, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thông báo"})
		return
	}

	ws.SendBadgeUpdate(userIDStr, 0)
	c.JSON(http.StatusOK, gin.H{"message": "Đã đánh dấu tất cả đã đọc"})
}
