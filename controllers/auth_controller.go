package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/models"
	"github.com/vnkhanh/skillstream-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Username        string `json:"username" binding:"required,min=3,max=150"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Password != input.PasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mật khẩu nhập lại không khớp"})
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	// Check username tồn tại
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên đăng nhập đã được sử dụng"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hoá mật khẩu"})
		return
	}

	// Mọi tài khoản mới là student, creator chỉ bật khi upload video đầu tiên
	newUser := models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     input.Email,
		Password:  string(hashed),
		IsStudent: true,
		IsCreator: false,
	}

	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo người dùng"})
		return
	}

	// Không auto-login: client chuyển sang trang đăng nhập
	c.JSON(http.StatusCreated, gin.H{
		"message": "Đăng ký thành công, vui lòng đăng nhập",
		"user": gin.H{
			"id":         newUser.ID,
			"username":   newUser.Username,
			"email":      newUser.Email,
			"is_student": newUser.IsStudent,
			"is_creator": newUser.IsCreator,
		},
	})
}

func Login(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	// Thông báo chung, không tiết lộ sai trường nào
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Tên đăng nhập hoặc mật khẩu không đúng"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Tên đăng nhập hoặc mật khẩu không đúng"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.IsCreator)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đăng nhập thành công",
		"token":   token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"full_name":  user.FullName,
			"is_creator": user.IsCreator,
			"is_student": user.IsStudent,
		},
	})
}

// Logout với JWT là phía client bỏ token; server chỉ xác nhận
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Đăng xuất thành công"})
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func GoogleLogin(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Xác minh token với đúng GOOGLE_CLIENT_ID
	payload, err := idtoken.Validate(c, input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token Google không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	fullName, _ := payload.Claims["name"].(string)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		// Chưa có -> tạo mới, username lấy từ phần trước @ và đảm bảo unique
		username, err := uniqueUsername(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo user Google"})
			return
		}
		user = models.User{
			ID:        uuid.New(),
			Username:  username,
			Email:     email,
			FullName:  fullName,
			IsStudent: true,
			// Password để trống vì login Google
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo user Google"})
			return
		}
	}

	token, err := utils.GenerateToken(user.ID.String(), user.IsCreator)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"full_name":  user.FullName,
			"is_creator": user.IsCreator,
		},
	})
}

func uniqueUsername(db *gorm.DB, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if base == "" {
		base = "user"
	}

	candidate := base
	for counter := 1; ; counter++ {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// Đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Người dùng không tồn tại"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mật khẩu cũ không đúng"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hoá mật khẩu mới"})
		return
	}

	user.Password = string(hashed)
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật mật khẩu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đổi mật khẩu thành công"})
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

func ForgotPassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Trả cùng một message dù email có tồn tại hay không
	okMessage := gin.H{"message": "Nếu email tồn tại, hướng dẫn đặt lại mật khẩu đã được gửi"}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, okMessage)
		return
	}

	reset := models.PasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(&reset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo yêu cầu đặt lại mật khẩu"})
		return
	}

	// Gửi email thông báo (không chặn luồng)
	go func(email, token string) {
		subject := "Đặt lại mật khẩu SkillStream"
		body := `
		<h3>Xin chào,</h3>
		<p>Bạn vừa yêu cầu đặt lại mật khẩu trên <b>SkillStream</b>.</p>
		<p><b>Mã đặt lại:</b> ` + token + `</p>
		<p>Mã có hiệu lực trong 1 giờ. Nếu không phải bạn, hãy bỏ qua email này.</p>
		<hr>
		<p><i>Đây là email tự động, vui lòng không trả lời.</i></p>
		`
		if err := utils.SendEmail(email, subject, body); err != nil {
			log.Println("Lỗi gửi email:", err)
		}
	}(user.Email, reset.Token)

	c.JSON(http.StatusOK, okMessage)
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ResetPassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reset models.PasswordReset
	if err := db.Where("token = ? AND used = ? AND expires_at > ?", input.Token, false, time.Now()).
		First(&reset).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mã đặt lại không hợp lệ hoặc đã hết hạn"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hoá mật khẩu mới"})
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật mật khẩu"})
		return
	}

	db.Model(&reset).Update("used", true)

	c.JSON(http.StatusOK, gin.H{"message": "Đặt lại mật khẩu thành công"})
}
