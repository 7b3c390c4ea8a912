package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Reward    RewardConfig
}

type AppConfig struct {
	Port                 string
	BaseURL              string
	Environment          string
	LogFilePath          string
	NotificationLogPath  string
	CorsAllowedOrigins   string
	NatsURL              string
	RedisURL             string
	NotificationsEnabled bool
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	ApiKeyCacheTTL time.Duration
}

type SchedulerConfig struct {
	LicenseExpirySpec   string
	RenewalReminderSpec string
	SubscriptionExpiry  string
	ReminderWindowDays  int
	JobTimeoutSeconds   int
	RunOnStart          bool
}

// RewardConfig drives the XP multiplier calendar.
type RewardConfig struct {
	PromoStart time.Time
	PromoEnd   time.Time
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                 getEnv("APP_PORT", "3000"),
			BaseURL:              getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:          getEnv("GO_ENV", "development"),
			LogFilePath:          getEnv("LOG_FILE_PATH", "logs/app.log"),
			NotificationLogPath:  getEnv("NOTIFICATION_LOG_FILE_PATH", "logs/notification.log"),
			CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:              getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
			NotificationsEnabled: getEnvAsBool("NOTIFICATIONS_ENABLED", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "EA Licensing"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
			ApiKeyCacheTTL: time.Duration(getEnvAsInt("API_KEY_CACHE_SECONDS", 60)) * time.Second,
		},
		Scheduler: SchedulerConfig{
			LicenseExpirySpec:   getEnv("CRON_LICENSE_EXPIRY", "0 */15 * * * *"),
			RenewalReminderSpec: getEnv("CRON_RENEWAL_REMINDER", "0 0 9 * * *"),
			SubscriptionExpiry:  getEnv("CRON_SUBSCRIPTION_EXPIRY", "0 5 * * * *"),
			ReminderWindowDays:  getEnvAsInt("RENEWAL_REMINDER_DAYS", 7),
			JobTimeoutSeconds:   getEnvAsInt("CRON_JOB_TIMEOUT_SECONDS", 300),
			RunOnStart:          getEnvAsBool("CRON_RUN_ON_START", false),
		},
		Reward: RewardConfig{
			PromoStart: getEnvAsDate("XP_PROMO_START", "2025-04-21"),
			PromoEnd:   getEnvAsDate("XP_PROMO_END", "2025-04-28"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDate parses YYYY-MM-DD. A bad value falls back silently.
func getEnvAsDate(key, fallback string) time.Time {
	if value, err := time.Parse(time.DateOnly, getEnv(key, fallback)); err == nil {
		return value
	}
	value, _ := time.Parse(time.DateOnly, fallback)
	return value
}
