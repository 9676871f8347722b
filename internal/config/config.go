package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	ResetTokenTTL   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	CORSOrigins []string
}

var C *Config

func Init() {
	_ = godotenv.Load()

	C = &Config{
		AppEnv:             get("APP_ENV", "dev"),
		Port:               get("APP_PORT", "8080"),
		DatabaseDSN:        os.Getenv("DATABASE_DSN"),
		RedisAddr:          get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:      get("REDIS_PASSWORD", ""),
		RedisDB:            atoi(get("REDIS_DB", "0")),
		AccessTokenTTL:     duration(get("ACCESS_TOKEN_TTL", "15m")),
		RefreshTokenTTL:    duration(get("REFRESH_TOKEN_TTL", "720h")),
		OTPTTL:             duration(get("OTP_TTL", "10m")),
		ResetTokenTTL:      duration(get("RESET_TOKEN_TTL", "1h")),
		SMTPHost:           get("SMTP_HOST", "localhost"),
		SMTPPort:           atoi(get("SMTP_PORT", "587")),
		SMTPUser:           get("SMTP_USER", ""),
		SMTPPassword:       get("SMTP_PASSWORD", ""),
		MailFrom:           get("MAIL_FROM", "no-reply@iqnite.app"),
		GoogleClientID:     get("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  get("GOOGLE_REDIRECT_URL", ""),
		CORSOrigins:        split(get("CORS_ORIGINS", "http://localhost:5173")),
	}
}

func get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
