package utils

import (
	"errors"
	"path/filepath"
	"strings"
)

// Các định dạng video được phép upload
var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
}

// ValidateVideoExt kiểm tra phần mở rộng file video
func ValidateVideoExt(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedVideoExts[ext] {
		return errors.New("định dạng video không hỗ trợ, chỉ nhận mp4, webm, ogg")
	}
	return nil
}

// ValidateImageExt kiểm tra phần mở rộng file ảnh (thumbnail, avatar)
func ValidateImageExt(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return nil
	default:
		return errors.New("định dạng ảnh không hỗ trợ")
	}
}
