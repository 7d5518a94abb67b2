package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/skillstream-backend/controllers"
	"github.com/vnkhanh/skillstream-backend/middleware"
	"github.com/vnkhanh/skillstream-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.Use(middleware.DBMiddleware(db))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	// Trang chủ và tìm kiếm: vào được cả khi chưa đăng nhập
	r.GET("/", middleware.OptionalAuthMiddleware(db), controllers.Home)
	r.GET("/search", middleware.OptionalAuthMiddleware(db), controllers.SearchVideos)

	// Xác thực
	r.POST("/register", controllers.Register)
	r.POST("/login", controllers.Login)
	r.POST("/logout", controllers.Logout)
	r.POST("/logingoogle", controllers.GoogleLogin)
	r.POST("/forgot-password", controllers.ForgotPassword)
	r.POST("/reset-password", controllers.ResetPassword)

	// Luồng video chính, yêu cầu đăng nhập
	authed := r.Group("/")
	{
		authed.Use(middleware.AuthMiddleware(db))

		authed.POST("/upload", controllers.UploadVideo)
		authed.GET("/watch_video/:video_id", controllers.WatchVideo)
		authed.GET("/like/:video_id", controllers.ToggleLike)
		authed.GET("/subscribe/:video_id", controllers.ToggleSubscription)
		authed.GET("/follow/:creator_id", controllers.FollowCreator)
		authed.GET("/delete_video/:video_id", controllers.DeleteVideo)
		authed.POST("/comment/:video_id", controllers.CreateComment)
		authed.GET("/dashboard", controllers.DashboardRedirect)
		authed.GET("/creator_dashboard", controllers.CreatorDashboard)
		authed.GET("/learner_dashboard", controllers.LearnerDashboard)
		authed.POST("/change-password", controllers.ChangePassword)
	}

	api := r.Group("/api")

	videos := api.Group("/videos")
	{
		videos.GET("/", controllers.APIVideosList)
		videos.GET("/:id", controllers.APIVideoDetail)
		videos.GET("/:id/comments", controllers.GetComments)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(db))

		user.GET("/stats/", controllers.APIUserStats)
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.GET("/subscriptions", controllers.GetSubscriptions)
		user.GET("/enrollments", controllers.GetEnrollments)
	}

	api.GET("/creators/:creator_id", controllers.GetCreatorProfile)

	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.AuthMiddleware(db))

		notifications.GET("", controllers.GetNotifications)
		notifications.GET("/unread-count", controllers.GetUnreadCount)
		notifications.POST("/:id/read", controllers.MarkNotificationRead)
		notifications.POST("/read-all", controllers.MarkAllNotificationsRead)
	}

	comments := api.Group("/comments")
	{
		comments.Use(middleware.AuthMiddleware(db))

		comments.DELETE("/:id", controllers.DeleteComment)
	}

	r.GET("/ws/video/:id", ws.HandleVideoWebSocket)
	r.GET("/ws/user", ws.HandleUserWebSocket)

	return r
}
