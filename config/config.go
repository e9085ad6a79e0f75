package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// Database
	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Bearer tokens are HS256, shared with the identity provider
	JWTSecret    string
	GateTokenTTL time.Duration

	// Redis (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Invitation email queue (optional)
	KafkaBrokers         []string
	KafkaInvitationTopic string
	KafkaConsumerGroup   string
	RabbitMQURL          string
	RabbitMQExchange     string
	RabbitMQQueue        string

	// Email
	EmailProvider           string // console | smtp | resend | kafka | rabbitmq
	QueueDeliveryProvider   string // provider used by the queue worker: console | smtp | resend
	SMTPHost                string
	SMTPPort                string
	SMTPUsername            string
	SMTPPassword            string
	SMTPFromName            string
	SMTPFromEmail           string
	ResendAPIKey            string
	ResendBaseURL           string
	AppBaseURL              string
	PlaceholderEmailDomains []string

	// GrowthBook
	GrowthBookAPIHost   string
	GrowthBookClientKey string
	FeatureFlagCacheTTL time.Duration

	// Clubhouse
	ClubhouseSessionTTL       time.Duration
	ClubhouseRequireGateToken bool
	ClubhouseRateLimit        string
	APIRateLimit              string

	CORSOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file, using environment variables")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "golftrip"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "golftrip.db"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		GateTokenTTL: getDuration("CLUBHOUSE_GATE_TOKEN_TTL", 10*time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		KafkaBrokers:         getList("KAFKA_BROKERS", nil),
		KafkaInvitationTopic: getEnv("KAFKA_INVITATION_TOPIC", "invitation-emails"),
		KafkaConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "golftrip-mailer"),
		RabbitMQURL:          os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:     getEnv("RABBITMQ_EXCHANGE", "invitations"),
		RabbitMQQueue:        getEnv("RABBITMQ_QUEUE", "invitation-emails"),

		EmailProvider:         getEnv("EMAIL_PROVIDER", "console"),
		QueueDeliveryProvider: getEnv("QUEUE_DELIVERY_PROVIDER", "smtp"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getEnv("SMTP_PORT", "587"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:          getEnv("SMTP_FROM_NAME", "Golf Trip"),
		SMTPFromEmail:         os.Getenv("SMTP_FROM_EMAIL"),
		ResendAPIKey:          os.Getenv("RESEND_API_KEY"),
		ResendBaseURL:         getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		AppBaseURL:            strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:5173"), "/"),
		PlaceholderEmailDomains: getList("PLACEHOLDER_EMAIL_DOMAINS",
			[]string{"placeholder.local", "noemail.golf", "example.com"}),

		GrowthBookAPIHost:   strings.TrimRight(getEnv("GROWTHBOOK_API_HOST", "https://cdn.growthbook.io"), "/"),
		GrowthBookClientKey: os.Getenv("GROWTHBOOK_CLIENT_KEY"),
		FeatureFlagCacheTTL: getDuration("FEATURE_FLAG_CACHE_TTL", time.Minute),

		ClubhouseSessionTTL:       getDuration("CLUBHOUSE_SESSION_TTL", 720*time.Hour),
		ClubhouseRequireGateToken: getBool("CLUBHOUSE_REQUIRE_GATE_TOKEN", false),
		ClubhouseRateLimit:        getEnv("CLUBHOUSE_RATE_LIMIT", "10-M"),
		APIRateLimit:              getEnv("API_RATE_LIMIT", "100-M"),

		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
