package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/skillstream-backend/models"
)

func TestUploadVideoPromotesCreator(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	fakeStorage(t)

	user, token := createUser(t, db, "hocvien", false)

	body, contentType := multipartUpload(t, map[string]string{
		"title":       "Video đầu tiên",
		"description": "Mô tả đủ dài cho video đầu tiên",
	}, "video_file", "bai1.mp4")

	w := doRequest(r, "POST", "/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved models.Video
	require.NoError(t, db.First(&saved, "creator_id = ?", user.ID).Error)
	assert.Equal(t, "video-dau-tien", saved.Slug)
	assert.Equal(t, user.ID, saved.CreatorID)
	assert.Equal(t, int64(0), saved.Views)

	// Upload đầu tiên thăng user lên creator
	var after models.User
	require.NoError(t, db.First(&after, "id = ?", user.ID).Error)
	assert.True(t, after.IsCreator)
}

func TestUploadVideoSlugSuffix(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	fakeStorage(t)

	_, token := createUser(t, db, "creator1", true)

	for i := 0; i < 3; i++ {
		body, contentType := multipartUpload(t, map[string]string{
			"title":       "Test Video",
			"description": "Mô tả đủ dài cho video trùng tên",
		}, "video_file", "clip.mp4")
		w := doRequest(r, "POST", "/upload", token, body, contentType)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var slugs []string
	require.NoError(t, db.Model(&models.Video{}).Order("uploaded_at").Pluck("slug", &slugs).Error)
	assert.ElementsMatch(t, []string{"test-video", "test-video-1", "test-video-2"}, slugs)
}

func TestUploadVideoValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	fakeStorage(t)

	_, token := createUser(t, db, "creator1", true)

	cases := []struct {
		name   string
		fields map[string]string
		file   string
	}{
		{"tiêu đề quá ngắn", map[string]string{"title": "ab", "description": "Mô tả đủ dài hợp lệ"}, "clip.mp4"},
		{"tiêu đề 2 ký tự có dấu", map[string]string{"title": "Đó", "description": "Mô tả đủ dài hợp lệ"}, "clip.mp4"},
		{"mô tả quá dài tính theo ký tự", map[string]string{"title": "Video hợp lệ", "description": strings.Repeat("ế", 1001)}, "clip.mp4"},
		{"mô tả quá ngắn", map[string]string{"title": "Video hợp lệ", "description": "ngắn"}, "clip.mp4"},
		{"thiếu file", map[string]string{"title": "Video hợp lệ", "description": "Mô tả đủ dài hợp lệ"}, ""},
		{"sai định dạng", map[string]string{"title": "Video hợp lệ", "description": "Mô tả đủ dài hợp lệ"}, "tailieu.pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fileField := ""
			if tc.file != "" {
				fileField = "video_file"
			}
			body, contentType := multipartUpload(t, tc.fields, fileField, tc.file)
			w := doRequest(r, "POST", "/upload", token, body, contentType)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	assert.Equal(t, int64(0), countRows(t, db, &models.Video{}, ""))
}

func TestUploadVideoCountsRunes(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	fakeStorage(t)

	_, token := createUser(t, db, "creator1", true)

	// "Đợi" là 3 ký tự nhưng 6 byte; mô tả 1000 ký tự có dấu vượt xa 1000 byte
	body, contentType := multipartUpload(t, map[string]string{
		"title":       "Đợi",
		"description": strings.Repeat("ế", 1000),
	}, "video_file", "clip.mp4")

	w := doRequest(r, "POST", "/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1), countRows(t, db, &models.Video{}, ""))
}

func TestUploadInvalidThumbnailNothingUploaded(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	storage := fakeStorage(t)

	_, token := createUser(t, db, "creator1", true)

	body, contentType := multipartUploadFiles(t, map[string]string{
		"title":       "Video có thumbnail lỗi",
		"description": "Mô tả đủ dài cho video có thumbnail lỗi",
	}, map[string]string{
		"video_file": "clip.mp4",
		"thumbnail":  "anh.gif",
	})

	// Thumbnail sai định dạng phải bị chặn trước khi đụng tới storage
	w := doRequest(r, "POST", "/upload", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.Video{}, ""))
	assert.Equal(t, 0, storage.count())
}

func TestUploadThumbnailFailureCleansUpVideo(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	storage := fakeStorageWith(t, func(req *http.Request) bool {
		return req.Method == "POST" && strings.Contains(req.URL.Path, "/thumbnails/")
	})

	_, token := createUser(t, db, "creator1", true)

	body, contentType := multipartUploadFiles(t, map[string]string{
		"title":       "Video kèm thumbnail",
		"description": "Mô tả đủ dài cho video kèm thumbnail",
	}, map[string]string{
		"video_file": "clip.mp4",
		"thumbnail":  "anh.png",
	})

	w := doRequest(r, "POST", "/upload", token, body, contentType)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.Video{}, ""))

	// Video đã đẩy lên trước đó phải được xóa, không để lại object mồ côi
	assert.True(t, storage.has("POST", "/videos/"))
	assert.True(t, storage.has("DELETE", "/videos/"))
}

func TestWatchVideoIncrementsViews(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	_, token := createUser(t, db, "nguoixem", false)
	video := createVideo(t, db, creator, "Video xem thử", "video-xem-thu")

	for i := 0; i < 3; i++ {
		w := doRequest(r, "GET", "/watch_video/"+video.ID.String(), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	var after models.Video
	require.NoError(t, db.First(&after, "id = ?", video.ID).Error)
	assert.Equal(t, int64(3), after.Views)
}

func TestWatchVideoNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	_, token := createUser(t, db, "nguoixem", false)

	w := doRequest(r, "GET", "/watch_video/"+uuid.NewString(), token, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteVideoOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	owner, ownerToken := createUser(t, db, "chusohuu", true)
	other, otherToken := createUser(t, db, "nguoikhac", false)
	video := createVideo(t, db, owner, "Video cần xóa", "video-can-xoa")

	comment := models.Comment{ID: uuid.New(), VideoID: video.ID, UserID: other.ID, Content: "hay quá"}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, db.Create(&models.VideoLike{UserID: other.ID, VideoID: video.ID}).Error)

	// Người khác xóa -> 403, dữ liệu giữ nguyên
	w := doRequest(r, "GET", "/delete_video/"+video.ID.String(), otherToken, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1), countRows(t, db, &models.Video{}, "id = ?", video.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Comment{}, "video_id = ?", video.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.VideoLike{}, "video_id = ?", video.ID))

	// Chủ video xóa -> mất video kèm comment và like
	w = doRequest(r, "GET", "/delete_video/"+video.ID.String(), ownerToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.Video{}, "id = ?", video.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.Comment{}, "video_id = ?", video.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.VideoLike{}, "video_id = ?", video.ID))
}

func TestHomeListsNewestVideos(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	createVideo(t, db, creator, "Video A", "video-a")
	createVideo(t, db, creator, "Video B", "video-b")

	w := doRequest(r, "GET", "/", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	videos, ok := body["videos"].([]interface{})
	require.True(t, ok)
	assert.Len(t, videos, 2)
	assert.Equal(t, false, body["is_authenticated"])
}
