package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the API, the admin console and the wipe script read
// from the environment.
type Config struct {
	HTTPAddr   string
	DBDSN      string
	LogLevel   string
	CORSOrigin string
	BaseURL    string

	// Admin account used by POST /api/auth/login.
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	// Image storage: "local" or "s3".
	ImageStore     string
	UploadDir      string
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
	S3UsePathStyle bool

	// Push-notification transport. Empty address disables publishing.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin console.
	AdminAPIURL string
	AdminToken  string
}

// LoadDotEnv loads a .env file if present. A missing file is not an error:
// we fall back to the process environment.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load builds a Config from environment variables, applying defaults.
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:   getEnv("HTTP_ADDR", ":4000"),
		DBDSN:      getEnv("DB_DSN", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		BaseURL:    strings.TrimRight(getEnv("BASE_URL", "http://localhost:4000"), "/"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		ImageStore:     strings.ToLower(getEnv("IMAGE_STORE", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:    strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
		S3UsePathStyle: getEnv("S3_USE_PATH_STYLE", "true") == "true",

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		AdminAPIURL: strings.TrimRight(getEnv("ADMIN_API_URL", "http://localhost:4000/api"), "/"),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),
	}

	return cfg, nil
}

// Validate checks the settings a given binary needs and reports every missing
// key at once.
func (c *Config) Validate(binary string) error {
	var missing []string

	switch binary {
	case "api":
		if c.DBDSN == "" {
			missing = append(missing, "DB_DSN")
		}
		if c.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
		if c.AdminEmail == "" {
			missing = append(missing, "ADMIN_EMAIL")
		}
		if c.AdminPasswordHash == "" {
			missing = append(missing, "ADMIN_PASSWORD_HASH")
		}
		switch c.ImageStore {
		case "local":
		case "s3":
			if c.S3Bucket == "" {
				missing = append(missing, "S3_BUCKET")
			}
			if c.S3PublicURL == "" {
				missing = append(missing, "S3_PUBLIC_URL")
			}
		default:
			return fmt.Errorf("IMAGE_STORE must be \"local\" or \"s3\", got %q", c.ImageStore)
		}
	case "wipedata":
		if c.DBDSN == "" {
			missing = append(missing, "DB_DSN")
		}
	case "admin":
		if c.AdminAPIURL == "" {
			missing = append(missing, "ADMIN_API_URL")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
