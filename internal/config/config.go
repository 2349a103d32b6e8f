package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendScylla = "scylla"
	BackendMemory = "memory"

	defaultNotifyTimeout = 15 * time.Second
)

type Config struct {
	Port    string
	GinMode string
	BaseURL string

	StoreBackend string

	ScyllaHosts       []string
	ScyllaKeyspace    string
	ScyllaUsername    string
	ScyllaPassword    string
	ScyllaConsistency string
	ScyllaMigrate     bool

	RedisHost     string
	RedisPassword string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
	MinIOPublicURL string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	KafkaBrokers    []string
	KafkaOrderTopic string

	JWTSecret     string
	SessionSecret string
	AdminEmails   []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	CallMeBotAPIKey       string
	WhatsAppBusinessToken string
	WhatsAppPhoneID       string
	NotifyTimeout         time.Duration

	CORSOrigins []string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("⚠️  No .env file found, using the system environment")
	} else {
		log.Info().Msg("✅ .env file loaded")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendScylla)),

		ScyllaHosts:       splitList(getEnv("SCYLLA_HOSTS", "127.0.0.1")),
		ScyllaKeyspace:    getEnv("SCYLLA_KEYSPACE", "jp_store"),
		ScyllaUsername:    os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword:    os.Getenv("SCYLLA_PASSWORD"),
		ScyllaConsistency: getEnv("SCYLLA_CONSISTENCY", "QUORUM"),
		ScyllaMigrate:     os.Getenv("SCYLLA_MIGRATE") == "true",

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinIOBucket:    getEnv("MINIO_BUCKET", "product-images"),
		MinIOPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "orders"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AdminEmails:   splitList(strings.ToLower(os.Getenv("ADMIN_EMAILS"))),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),

		CallMeBotAPIKey:       os.Getenv("CALLMEBOT_API_KEY"),
		WhatsAppBusinessToken: os.Getenv("WHATSAPP_BUSINESS_TOKEN"),
		WhatsAppPhoneID:       os.Getenv("WHATSAPP_PHONE_ID"),
		NotifyTimeout:         getEnvDuration("NOTIFY_TIMEOUT", defaultNotifyTimeout),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("⚠️  JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "dev_jwt_secret"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JWTSecret
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}
	return cfg
}

func (c *Config) MemoryBackend() bool { return c.StoreBackend == BackendMemory }

func (c *Config) ElasticEnabled() bool { return c.ElasticURL != "" }

func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c *Config) MinIOEnabled() bool { return c.MinIOEndpoint != "" }

func (c *Config) SMTPEnabled() bool { return c.SMTPHost != "" }

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// LogSubsystems reports once which optional integrations are off.
func (c *Config) LogSubsystems() {
	if !c.ElasticEnabled() {
		log.Warn().Msg("⚠️  ELASTIC_URL not set, product search falls back to substring matching")
	}
	if !c.KafkaEnabled() {
		log.Warn().Msg("⚠️  KAFKA_BROKERS not set, order events are not published")
	}
	if !c.MinIOEnabled() {
		log.Warn().Msg("⚠️  MINIO_ENDPOINT not set, image upload is disabled")
	}
	if !c.SMTPEnabled() {
		log.Warn().Msg("⚠️  SMTP_HOST not set, order emails are logged only")
	}
	if c.CallMeBotAPIKey == "" {
		log.Warn().Msg("⚠️  CALLMEBOT_API_KEY not set, CallMeBot provider disabled")
	}
	if c.WhatsAppBusinessToken == "" || c.WhatsAppPhoneID == "" {
		log.Warn().Msg("⚠️  WhatsApp Business credentials not set, provider disabled")
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvDuration accepts a Go duration ("20s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", raw).Msg("⚠️  Invalid duration, using default")
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
