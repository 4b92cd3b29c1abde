package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort  string
	Environment string
	LogLevel    string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3BucketName       string
	S3UseSSL           string

	// WhatsApp Business API
	WhatsAppAPIURL            string
	WhatsAppPhoneNumberID     string
	WhatsAppAccessToken       string
	WhatsAppVerifyToken       string
	WhatsAppBusinessAccountID string
	WhatsAppRequestsPerSecond float64

	// ERP (MSSQL)
	ERPHost          string
	ERPPort          string
	ERPUser          string
	ERPPassword      string
	ERPDatabase      string
	ERPPointsPerUnit float64

	// Loyalty
	TierSilverThreshold   int
	TierGoldThreshold     int
	TierPlatinumThreshold int
	PointsExpiryDays      int
	ExpiringSoonDays      int
	TierPolicyFile        string

	// Affiliates
	DefaultCommissionRate string
	ReferralBaseURL       string

	// Rate limiting
	RateLimitPerMinute int

	// Scheduled jobs
	ExpirePointsCron string
	BirthdayCron     string
	ERPSyncCron      string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "loyalty"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "loyalty-media"),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),

		WhatsAppAPIURL:            getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppPhoneNumberID:     getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:       getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken:       getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppBusinessAccountID: getEnv("WHATSAPP_BUSINESS_ACCOUNT_ID", ""),
		WhatsAppRequestsPerSecond: getEnvFloat("WHATSAPP_REQUESTS_PER_SECOND", 20),

		ERPHost:          getEnv("ERP_HOST", ""),
		ERPPort:          getEnv("ERP_PORT", "1433"),
		ERPUser:          getEnv("ERP_USER", ""),
		ERPPassword:      getEnv("ERP_PASSWORD", ""),
		ERPDatabase:      getEnv("ERP_DATABASE", ""),
		ERPPointsPerUnit: getEnvFloat("ERP_POINTS_PER_UNIT", 0.01),

		TierSilverThreshold:   getEnvInt("TIER_SILVER_THRESHOLD", 200),
		TierGoldThreshold:     getEnvInt("TIER_GOLD_THRESHOLD", 500),
		TierPlatinumThreshold: getEnvInt("TIER_PLATINUM_THRESHOLD", 1000),
		PointsExpiryDays:      getEnvInt("POINTS_EXPIRY_DAYS", 365),
		ExpiringSoonDays:      getEnvInt("POINTS_EXPIRING_SOON_DAYS", 30),
		TierPolicyFile:        getEnv("TIER_POLICY_FILE", ""),

		DefaultCommissionRate: getEnv("DEFAULT_COMMISSION_RATE", "5.00"),
		ReferralBaseURL:       getEnv("REFERRAL_BASE_URL", "https://loyaltyapp.com/ref/"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		ExpirePointsCron: getEnv("EXPIRE_POINTS_CRON", "0 2 * * *"),
		BirthdayCron:     getEnv("BIRTHDAY_CRON", "0 9 * * *"),
		ERPSyncCron:      getEnv("ERP_SYNC_CRON", "0 * * * *"),
	}

	return config, nil
}

// ERPEnabled reports whether enough ERP settings are present to open a connection.
func (c *Config) ERPEnabled() bool {
	return c.ERPHost != "" && c.ERPDatabase != ""
}

// WhatsAppEnabled reports whether outbound WhatsApp calls can be made.
func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsAppPhoneNumberID != "" && c.WhatsAppAccessToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
