package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/skillstream-backend/config"
	"github.com/vnkhanh/skillstream-backend/routes"
	"github.com/vnkhanh/skillstream-backend/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	config.InitDB()

	r := gin.Default()

	// Bật CORS, origin lấy từ env để deploy được nhiều môi trường
	origins := []string{"http://localhost:5173"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB)

	// Job dọn token reset password hết hạn
	utils.StartCleanupJob(config.DB)

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
