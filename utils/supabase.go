package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

func publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", os.Getenv("SUPABASE_URL"), objectPath)
}

func uploadMultipart(fileHeader *multipart.FileHeader, objectPath string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile("uploads", objectPath, &buf, options); err != nil {
		return "", err
	}

	return publicURL(objectPath), nil
}

// UploadVideoToSupabase đẩy file video (.mp4, .webm, .ogg) lên Supabase Storage
// Path: uploads/videos/<fileID>.<ext>
func UploadVideoToSupabase(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	return uploadMultipart(fileHeader, fmt.Sprintf("videos/%s%s", fileID, ext))
}

// UploadThumbnailToSupabase đẩy ảnh thumbnail lên Supabase Storage
// Path: uploads/thumbnails/<fileID>.<ext>
func UploadThumbnailToSupabase(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	return uploadMultipart(fileHeader, fmt.Sprintf("thumbnails/%s%s", fileID, ext))
}

// UploadAvatarToSupabase đẩy ảnh đại diện lên Supabase Storage
// Path: uploads/profiles/<fileID>.<ext>
func UploadAvatarToSupabase(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	return uploadMultipart(fileHeader, fmt.Sprintf("profiles/%s%s", fileID, ext))
}

// DeleteFileFromSupabase nhận public URL chứa "/storage/v1/object/" và gọi API
// Supabase Storage để xóa object. Yêu cầu SUPABASE_URL và SUPABASE_KEY trong ENV.
func DeleteFileFromSupabase(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	idx := strings.Index(fileURL, "/storage/v1/object/")
	if idx == -1 {
		return fmt.Errorf("không xác định được đường dẫn object trong URL: %s", fileURL)
	}

	rest := fileURL[idx+len("/storage/v1/object/"):]
	rest = strings.TrimPrefix(rest, "public/")

	// rest => "<bucket>/<path/to/object...>"
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return fmt.Errorf("không parse được bucket/object từ URL: %s", fileURL)
	}
	bucket := parts[0]
	object := parts[1]
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest("DELETE", deleteURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase trả 200 hoặc 204 khi xóa thành công
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("xóa file Supabase thất bại: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
