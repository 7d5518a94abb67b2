package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/skillstream-backend/config"
	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/routes"
	"github.com/vnkhanh/skillstream-backend/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// :memory: là DB riêng cho từng connection, giới hạn pool về 1
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(gin.New(), db)
}

func createUser(t *testing.T, db *gorm.DB, username string, isCreator bool) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("matkhau123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hashed),
		IsStudent: true,
		IsCreator: isCreator,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID.String(), user.IsCreator)
	require.NoError(t, err)
	return user, token
}

func createVideo(t *testing.T, db *gorm.DB, creator models.User, title, slug string) models.Video {
	t.Helper()

	video := models.Video{
		ID:          uuid.New(),
		CreatorID:   creator.ID,
		Title:       title,
		Slug:        slug,
		Description: "Mô tả cho video " + title,
		VideoURL:    "http://example.invalid/videos/" + slug + ".mp4",
	}
	require.NoError(t, db.Create(&video).Error)
	return video
}

func doRequest(r *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}
	return doRequest(r, method, path, token, body, "application/json")
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// multipartUpload dựng body multipart cho POST /upload
func multipartUpload(t *testing.T, fields map[string]string, fileField, filename string) (*bytes.Buffer, string) {
	t.Helper()

	files := map[string]string{}
	if fileField != "" {
		files[fileField] = filename
	}
	return multipartUploadFiles(t, fields, files)
}

// multipartUploadFiles dựng body multipart với nhiều file (video + thumbnail)
func multipartUploadFiles(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake file bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

// storageLog ghi lại các request mà fake Supabase đã nhận
type storageLog struct {
	mu       sync.Mutex
	requests []string // "METHOD path"
}

func (l *storageLog) add(method, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, method+" "+path)
}

func (l *storageLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

// has kiểm tra có request với method và path chứa chuỗi con cho trước
func (l *storageLog) has(method, pathPart string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.requests {
		if strings.HasPrefix(r, method+" ") && strings.Contains(r, pathPart) {
			return true
		}
	}
	return false
}

// fakeStorage giả lập Supabase Storage API, nhận mọi upload và trả 200
func fakeStorage(t *testing.T) *storageLog {
	t.Helper()
	return fakeStorageWith(t, nil)
}

// fakeStorageWith cho phép ép một số request trả lỗi 500 (fail == nil thì luôn 200)
func fakeStorageWith(t *testing.T, fail func(r *http.Request) bool) *storageLog {
	t.Helper()

	log := &storageLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r.Method, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if fail != nil && fail(r) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"storage down"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"Key":"uploads/videos/test.mp4"}`)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_KEY", "test-key")
	return log
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
