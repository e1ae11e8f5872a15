package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Port               string
	MongoURI           string
	DBName             string
	JWTSecret          string
	UserTokenTTLHours  int // user session tokens
	AdminTokenTTLHours int // admin tokens are longer-lived
	UploadDir          string
	CORSAllowedOrigins []string
	UseCloudinary      bool // set when Cloudinary credentials are configured
	AdminUsername      string
	AdminPassword      string

	MongoClient *mongo.Client
	Logger      *zap.Logger
}

// Load reads configuration from environment, with optional .env file.
func Load(logger *zap.Logger) *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8000"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "community_events"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		UserTokenTTLHours:  getEnvInt("USER_TOKEN_TTL_HOURS", 1),
		AdminTokenTTLHours: getEnvInt("ADMIN_TOKEN_TTL_HOURS", 7*24),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		CORSAllowedOrigins: splitTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		UseCloudinary:      os.Getenv("CLOUDINARY_CLOUD_NAME") != "",
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		Logger:             logger,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
