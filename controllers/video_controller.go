package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/utils"
)

// Payload video dùng chung cho feed / dashboard
func videoJSON(v models.Video, likeCount int64) gin.H {
	return gin.H{
		"id":           v.ID,
		"title":        v.Title,
		"slug":         v.Slug,
		"description":  v.Description,
		"video_url":    v.VideoURL,
		"thumbnail":    v.Thumbnail,
		"duration_sec": v.DurationSec,
		"views":        v.Views,
		"likes":        likeCount,
		"creator": gin.H{
			"id":         v.Creator.ID,
			"username":   v.Creator.Username,
			"avatar_url": v.Creator.AvatarURL,
		},
		"uploaded_at": v.UploadedAt,
	}
}

func likeCountFor(db *gorm.DB, videoID uuid.UUID) int64 {
	var count int64
	db.Model(&models.VideoLike{}).Where("video_id = ?", videoID).Count(&count)
	return count
}

// GET / — trang chủ: 12 video mới nhất, vào được cả khi chưa đăng nhập
func Home(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var videos []models.Video
	if err := db.Preload("Creator").Order("uploaded_at DESC").Limit(12).Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách video"})
		return
	}

	items := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoJSON(v, likeCountFor(db, v.ID)))
	}

	c.JSON(http.StatusOK, gin.H{
		"videos":           items,
		"is_authenticated": c.GetString("user_id") != "",
	})
}

// POST /upload — upload video, tự thăng creator ở lần đầu
func UploadVideo(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))

	// Đếm theo rune, tiếng Việt có dấu chiếm nhiều byte
	if n := utf8.RuneCountInString(title); n < 3 || n > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề phải từ 3 đến 200 ký tự"})
		return
	}
	if n := utf8.RuneCountInString(description); n < 10 || n > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mô tả phải từ 10 đến 1000 ký tự"})
		return
	}

	file, err := c.FormFile("video_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file video đính kèm"})
		return
	}
	if err := utils.ValidateVideoExt(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Thumbnail không bắt buộc, nhưng validate xong hết rồi mới đụng storage
	var thumbFile *multipart.FileHeader
	if tf, err := c.FormFile("thumbnail"); err == nil {
		if err := utils.ValidateImageExt(tf.Filename); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		thumbFile = tf
	}

	videoID := uuid.New()

	videoURL, err := utils.UploadVideoToSupabase(file, videoID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload video", "details": err.Error()})
		return
	}

	// Từ đây lỗi nào cũng phải dọn file đã đẩy lên, không để object mồ côi
	cleanupUploads := func(urls ...string) {
		for _, u := range urls {
			if u == "" {
				continue
			}
			if err := utils.DeleteFileFromSupabase(u); err != nil {
				log.Println("Lỗi dọn file trên Supabase:", err)
			}
		}
	}

	thumbnail := ""
	if thumbFile != nil {
		thumbURL, err := utils.UploadThumbnailToSupabase(thumbFile, videoID.String())
		if err != nil {
			cleanupUploads(videoURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload thumbnail", "details": err.Error()})
			return
		}
		thumbnail = thumbURL
	}

	var durationSec *int
	if d := c.PostForm("duration_sec"); d != "" {
		if val, err := strconv.Atoi(d); err == nil && val > 0 {
			durationSec = &val
		}
	}

	videoSlug, err := utils.UniqueVideoSlug(db, title)
	if err != nil {
		cleanupUploads(videoURL, thumbnail)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể sinh slug"})
		return
	}

	// Creator luôn là user đang đăng nhập, không tin dữ liệu client
	video := models.Video{
		ID:          videoID,
		CreatorID:   userUUID,
		Title:       title,
		Slug:        videoSlug,
		Description: description,
		VideoURL:    videoURL,
		Thumbnail:   thumbnail,
		DurationSec: durationSec,
		Views:       0,
	}

	if err := db.Create(&video).Error; err != nil {
		cleanupUploads(videoURL, thumbnail)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo video", "details": err.Error()})
		return
	}

	// Lần upload đầu tiên thăng user lên creator, giữ nguyên về sau
	if !c.GetBool("is_creator") {
		db.Model(&models.User{}).Where("id = ?", userUUID).Update("is_creator", true)
	}

	db.Preload("Creator").First(&video, "id = ?", video.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload video thành công!",
		"video":   videoJSON(video, 0),
	})
}

// GET /watch_video/:video_id — trang xem: tăng view mỗi lần gọi, không dedup
func WatchVideo(c *gin.Context) {
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy video"})
		return
	}

	// Tăng view bằng một biểu thức SQL, tránh race đọc-sửa-ghi ở app
	if err := db.Model(&models.Video{}).Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật lượt xem"})
		return
	}
	video.Views++

	// Trạng thái subscribe với creator của video
	var subCount int64
	db.Model(&models.ChannelSubscription{}).
		Where("subscriber_id = ? AND creator_id = ?", userUUID, video.CreatorID).
		Count(&subCount)

	var liked int64
	db.Model(&models.VideoLike{}).
		Where("user_id = ? AND video_id = ?", userUUID, videoID).
		Count(&liked)

	// Bình luận mới nhất lên trước
	var comments []models.Comment
	db.Preload("User").Where("video_id = ?", videoID).
		Order("created_at DESC").Find(&comments)

	commentItems := make([]gin.H, 0, len(comments))
	for _, cmt := range comments {
		commentItems = append(commentItems, gin.H{
			"id":         cmt.ID,
			"user_id":    cmt.UserID,
			"username":   cmt.User.Username,
			"content":    cmt.Content,
			"created_at": cmt.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"video":         videoJSON(video, likeCountFor(db, videoID)),
		"is_subscribed": subCount > 0,
		"is_liked":      liked > 0,
		"comments":      commentItems,
	})
}

// GET /delete_video/:video_id — chỉ creator của video được xóa
func DeleteVideo(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")
	userUUID, _ := uuid.Parse(userIDStr)

	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id không hợp lệ"})
		return
	}

	var video models.Video
	if err := db.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy video"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi truy vấn DB"})
		return
	}

	if video.CreatorID != userUUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xóa video này"})
		return
	}

	// Xóa file trên Supabase; lỗi storage không chặn xóa DB
	if err := utils.DeleteFileFromSupabase(video.VideoURL); err != nil {
		log.Println("Lỗi xóa file video trên Supabase:", err)
	}
	if video.Thumbnail != "" {
		if err := utils.DeleteFileFromSupabase(video.Thumbnail); err != nil {
			log.Println("Lỗi xóa thumbnail trên Supabase:", err)
		}
	}

	tx := db.Begin()
	if err := tx.Where("video_id = ?", video.ID).Delete(&models.VideoLike{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa lượt thích"})
		return
	}
	if err := tx.Where("video_id = ?", video.ID).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa bình luận"})
		return
	}
	if err := tx.Where("video_id = ?", video.ID).Delete(&models.Subscription{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa bản ghi đăng ký cũ"})
		return
	}
	if err := tx.Delete(&models.Video{}, "id = ?", video.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa video"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể commit thay đổi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa video thành công"})
}

// GET /creator_dashboard — Creator Studio: video của mình + số liệu kênh
func CreatorDashboard(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	if !c.GetBool("is_creator") {
		c.JSON(http.StatusOK, gin.H{"redirect": "learner_dashboard"})
		return
	}

	var videos []models.Video
	db.Preload("Creator").Where("creator_id = ?", userIDStr).
		Order("uploaded_at DESC").Find(&videos)

	var totalViews int64
	db.Model(&models.Video{}).Where("creator_id = ?", userIDStr).
		Select("COALESCE(SUM(views), 0)").Scan(&totalViews)

	var subscriberCount int64
	db.Model(&models.ChannelSubscription{}).Where("creator_id = ?", userIDStr).
		Count(&subscriberCount)

	items := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoJSON(v, likeCountFor(db, v.ID)))
	}

	c.JSON(http.StatusOK, gin.H{
		"user_type":        "creator",
		"videos":           items,
		"total_views":      totalViews,
		"subscriber_count": subscriberCount,
	})
}

// GET /learner_dashboard — video từ kênh đã subscribe trước, sau đó toàn bộ
func LearnerDashboard(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	if !c.GetBool("is_student") {
		c.JSON(http.StatusOK, gin.H{"redirect": "creator_dashboard"})
		return
	}

	var creatorIDs []uuid.UUID
	db.Model(&models.ChannelSubscription{}).Where("subscriber_id = ?", userIDStr).
		Pluck("creator_id", &creatorIDs)

	var subscribedVideos []models.Video
	if len(creatorIDs) > 0 {
		db.Preload("Creator").Where("creator_id IN ?", creatorIDs).
			Order("uploaded_at DESC").Find(&subscribedVideos)
	}

	var allVideos []models.Video
	db.Preload("Creator").Order("uploaded_at DESC").Find(&allVideos)

	subItems := make([]gin.H, 0, len(subscribedVideos))
	for _, v := range subscribedVideos {
		subItems = append(subItems, videoJSON(v, likeCountFor(db, v.ID)))
	}
	allItems := make([]gin.H, 0, len(allVideos))
	for _, v := range allVideos {
		allItems = append(allItems, videoJSON(v, likeCountFor(db, v.ID)))
	}

	c.JSON(http.StatusOK, gin.H{
		"user_type":         "learner",
		"subscribed_videos": subItems,
		"all_videos":        allItems,
	})
}

// GET /dashboard — chọn dashboard theo vai trò sau đăng nhập
func DashboardRedirect(c *gin.Context) {
	if c.GetBool("is_creator") {
		c.JSON(http.StatusOK, gin.H{"redirect": "creator_dashboard"})
		return
	}
	if c.GetBool("is_student") {
		c.JSON(http.StatusOK, gin.H{"redirect": "learner_dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "home"})
}
