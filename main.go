package main

import (
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kamande/community-events-go/config"
	"github.com/kamande/community-events-go/controllers"
	"github.com/kamande/community-events-go/middleware"
	"github.com/kamande/community-events-go/routes"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load(logger)

	if err := cfg.Connect(); err != nil {
		logger.Fatal("mongodb connect", zap.Error(err))
	}
	if err := cfg.EnsureIndexes(); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}
	if err := controllers.SeedAdminAccount(cfg); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded event images are stored on disk and served statically.
	r.Static("/uploads/events", filepath.Join(cfg.UploadDir, "events"))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "message": "Backend is up and running"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"success": false, "message": "Endpoint not found"})
	})

	routes.SetupRoutes(r, cfg)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
