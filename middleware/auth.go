package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/utils"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")

	// Nếu không có, thử X-Auth-Token (cho mobile)
	if authHeader == "" {
		authHeader = c.GetHeader("X-Auth-Token")
	}
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu Authorization header"})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			c.Abort()
			return
		}

		// Đọc lại is_creator từ DB: user có thể được thăng creator sau khi token phát hành
		var user models.User
		if err := db.Select("id", "username", "is_creator", "is_student").
			First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy người dùng"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", user.Username)
		c.Set("is_creator", user.IsCreator)
		c.Set("is_student", user.IsStudent)
		c.Next()
	}
}

// OptionalAuthMiddleware: có token hợp lệ thì gắn user vào context, không thì cho qua (anonymous)
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			// Token sai / hết hạn -> coi như anonymous
			c.Next()
			return
		}

		var user models.User
		if err := db.Select("id", "username", "is_creator", "is_student").
			First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", user.Username)
		c.Set("is_creator", user.IsCreator)
		c.Set("is_student", user.IsStudent)
		c.Next()
	}
}
