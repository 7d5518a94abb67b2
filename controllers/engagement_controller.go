package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
)

// GET /like/:video_id — toggle: đã like thì bỏ like, chưa thì like
func ToggleLike(c *gin.Context) {
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

	var video models.Video
	if err := db.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video không tồn tại"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	var like models.VideoLike
	if err := db.Where("user_id = ? AND video_id = ?", userUUID, videoID).First(&like).Error; err == nil {
		// Đã like -> bỏ like
		if err := db.Where("user_id = ? AND video_id = ?", userUUID, videoID).
			Delete(&models.VideoLike{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể bỏ thích video"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Bạn đã bỏ thích '" + video.Title + "'",
			"liked":   false,
			"likes":   likeCountFor(db, videoID),
		})
		return
	}

	newLike := models.VideoLike{
		UserID:  userUUID,
		VideoID: videoID,
	}
	// Khóa chính kép chặn double-insert nếu hai request đua nhau
	if err := db.Create(&newLike).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể thích video"})
		return
	}

	// Báo cho chủ video (không báo khi bỏ like)
	if video.CreatorID != userUUID {
		var liker models.User
		if err := db.Select("id", "username").First(&liker, "id = ?", userUUID).Error; err == nil {
			notifyUser(db, video.CreatorID,
				"Video của bạn được yêu thích",
				liker.Username+" đã thích video \""+video.Title+"\"",
				"like", &video.ID, nil)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bạn đã thích '" + video.Title + "'",
		"liked":   true,
		"likes":   likeCountFor(db, videoID),
	})
}

// GET /subscribe/:video_id — toggle subscription với kênh của creator video
func ToggleSubscription(c *gin.Context) {
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

	var video models.Video
	if err := db.Preload("Creator").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video không tồn tại"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	// Không cho tự subscribe kênh của mình, dù trước đó thế nào
	if video.CreatorID == userUUID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bạn không thể subscribe kênh của chính mình"})
		return
	}

	var sub models.ChannelSubscription
	if err := db.Where("subscriber_id = ? AND creator_id = ?", userUUID, video.CreatorID).
		First(&sub).Error; err == nil {
		// Đang subscribe -> hủy
		if err := db.Delete(&sub).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể hủy subscribe"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Bạn đã hủy subscribe kênh của " + video.Creator.Username,
			"subscribed": false,
		})
		return
	}

	newSub := models.ChannelSubscription{
		ID:           uuid.New(),
		SubscriberID: userUUID,
		CreatorID:    video.CreatorID,
	}
	// Unique (subscriber, creator) chặn bản ghi trùng
	if err := db.Create(&newSub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể subscribe"})
		return
	}

	var subscriber models.User
	if err := db.Select("id", "username").First(&subscriber, "id = ?", userUUID).Error; err == nil {
		notifyUser(db, video.CreatorID,
			"Kênh của bạn có subscriber mới",
			subscriber.Username+" đã subscribe kênh của bạn",
			"subscribe", nil, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Bạn đã subscribe kênh của " + video.Creator.Username,
		"subscribed": true,
	})
}

// GET /follow/:creator_id — chỉ thêm, không toggle (khác subscribe)
func FollowCreator(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")
	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

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

	if creatorID == userUUID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bạn không thể tự follow chính mình"})
		return
	}

	var existing models.UserFollow
	if err := db.Where("follower_id = ? AND followee_id = ?", userUUID, creatorID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Bạn đã follow creator này rồi"})
		return
	}

	follow := models.UserFollow{
		FollowerID: userUUID,
		FolloweeID: creatorID,
	}
	if err := db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể follow creator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bạn đang follow " + creator.Username})
}

// GET /api/user/subscriptions — danh sách kênh user đang theo dõi
func GetSubscriptions(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	var subs []models.ChannelSubscription
	if err := db.Preload("Creator").Where("subscriber_id = ?", userIDStr).
		Order("subscribed_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách subscription"})
		return
	}

	items := make([]gin.H, 0, len(subs))
	for _, s := range subs {
		items = append(items, gin.H{
			"id":            s.ID,
			"subscribed_at": s.SubscribedAt,
			"creator": gin.H{
				"id":         s.Creator.ID,
				"username":   s.Creator.Username,
				"avatar_url": s.Creator.AvatarURL,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": items})
}
