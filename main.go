package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"autoapply/browser"
	"autoapply/config"
	"autoapply/controllers"
	"autoapply/database"
	"autoapply/middleware"
	"autoapply/models"
	"autoapply/services"
)

const maxUploadSize = 10 << 20 // resume uploads

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.GetAppConfig()

	var submissions *models.SubmissionModel
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		submissions = models.NewSubmissionModel(db)
		if err := submissions.EnsureTable(); err != nil {
			log.Fatalf("Failed to prepare submissions table: %v", err)
		}
	} else {
		log.Printf("DATABASE_URL not set; submission history disabled")
	}

	submitter := services.NewSubmitter(browser.LaunchPlaywright)
	if cfg.Automation.Screenshots {
		if s3Service, err := services.NewS3Service(); err != nil {
			log.Printf("S3 not available, confirmation screenshots disabled: %v", err)
		} else {
			submitter.Screenshots = services.NewScreenshotService(s3Service)
		}
	}

	submissionController := controllers.NewSubmissionController(submitter, submissions, cfg)

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.MaxRequestSize(maxUploadSize))

	rateLimiter := middleware.NewRateLimiter(30, time.Minute)

	r.GET("/health", submissionController.Health)

	api := r.Group("/api")
	api.Use(rateLimiter.Limit())
	if cfg.JWTSecret != "" && cfg.APIKeyHash != "" {
		jwtService := services.NewJWTService(cfg.JWTSecret)
		authController := controllers.NewAuthController(jwtService, cfg.APIKeyHash)
		r.POST("/auth/token", rateLimiter.Limit(), authController.Token)
		api.Use(middleware.RequireToken(jwtService))
	} else {
		log.Printf("JWT_SECRET/API_KEY_HASH not set; API auth disabled")
	}

	api.POST("/submit", middleware.ValidateContentType("multipart/form-data"), submissionController.Submit)
	api.GET("/submissions", submissionController.List)

	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
