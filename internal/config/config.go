package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	MySQLDSN         string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	JWTSecret        string
	JWTRefreshSecret string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	FromEmail        string
	FrontendURL      string
	CORSOrigins      []string
	UploadDir        string
	RabbitURL        string
	SwaggerHost      string
	ResetDB          bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "change-me")
	smtpUser := os.Getenv("SMTP_USER")

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "5000"),
		MySQLDSN:         getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/ticketing?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        jwtSecret,
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", jwtSecret),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         smtpUser,
		SMTPPass:         os.Getenv("SMTP_PASS"),
		FromEmail:        getEnv("FROM_EMAIL", smtpUser),
		FrontendURL:      strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		RabbitURL:        os.Getenv("RABBIT_URL"),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
		ResetDB:          os.Getenv("RESET_DB") == "true",

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
