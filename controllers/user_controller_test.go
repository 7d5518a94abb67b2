package controllers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/skillstream-backend/models"
)

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	user, token := createUser(t, db, "hocvien", false)

	sub := models.ChannelSubscription{ID: uuid.New(), SubscriberID: user.ID, CreatorID: creator.ID}
	require.NoError(t, db.Create(&sub).Error)

	w := doRequest(r, "GET", "/api/user/profile", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	userJSON := body["user"].(map[string]interface{})
	assert.Equal(t, "hocvien", userJSON["username"])
	assert.Equal(t, float64(1), body["subscription_count"])
	assert.Equal(t, float64(0), body["video_count"])
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	user, token := createUser(t, db, "hocvien", false)

	form := url.Values{}
	form.Set("full_name", "Nguyễn Văn A")
	form.Set("bio", "Thích học Go")

	w := doRequest(r, "PUT", "/api/user/profile", token,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", user.ID).Error)
	assert.Equal(t, "Nguyễn Văn A", after.FullName)
	assert.Equal(t, "Thích học Go", after.Bio)
	assert.Equal(t, "Nguyễn Văn A", after.DisplayName())
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	_, token := createUser(t, db, "hocvien", false)

	form := url.Values{}
	form.Set("bio", strings.Repeat("a", 501))

	w := doRequest(r, "PUT", "/api/user/profile", token,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProfileBioCountsRunes(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	user, token := createUser(t, db, "hocvien", false)

	// 500 ký tự có dấu vượt 500 byte nhưng vẫn hợp lệ
	form := url.Values{}
	form.Set("bio", strings.Repeat("ệ", 500))

	w := doRequest(r, "PUT", "/api/user/profile", token,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", user.ID).Error)
	assert.Equal(t, strings.Repeat("ệ", 500), after.Bio)
}

func TestGetCreatorProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	fan, _ := createUser(t, db, "fan1", false)
	createVideo(t, db, creator, "Video kênh", "video-kenh")

	sub := models.ChannelSubscription{ID: uuid.New(), SubscriberID: fan.ID, CreatorID: creator.ID}
	require.NoError(t, db.Create(&sub).Error)

	w := doRequest(r, "GET", "/api/creators/"+creator.ID.String(), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	creatorJSON := body["creator"].(map[string]interface{})
	assert.Equal(t, "creator1", creatorJSON["username"])
	assert.Equal(t, float64(1), body["subscriber_count"])
	assert.Len(t, body["videos"].([]interface{}), 1)
}

func TestGetEnrollmentsReadOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	learner, token := createUser(t, db, "hocvien", false)
	video := createVideo(t, db, creator, "Khóa học cũ", "khoa-hoc-cu")

	// Dữ liệu legacy được seed thẳng vào bảng, flow hiện tại không ghi thêm
	enrollment := models.Subscription{
		ID:        uuid.New(),
		LearnerID: learner.ID,
		VideoID:   video.ID,
		Completed: true,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	w := doRequest(r, "GET", "/api/user/enrollments", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	items := body["enrollments"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, true, first["completed"])
	assert.Equal(t, "Khóa học cũ", first["video"].(map[string]interface{})["title"])
}
