package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// InsecureJWTSecret is used when JWT_SECRET is unset. Fine for local runs, never for production.
const InsecureJWTSecret = "roamers-insecure-dev-secret"

type Config struct {
	AppPort  string `envconfig:"APP_PORT" default:"5000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBName      string `envconfig:"DB_NAME" default:"roamers_db"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"roamers-service"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	NATSURL string `envconfig:"NATS_URL"`

	OtelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"jaeger:4317"`

	CORSOrigins         []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitMax        int      `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitExpiration int      `envconfig:"RATE_LIMIT_EXPIRATION" default:"60"`

	S3    S3Config
	APNS  APNSConfig
	Admin AdminConfig
}

type S3Config struct {
	Endpoint     string `envconfig:"S3_ENDPOINT"`
	Region       string `envconfig:"AWS_REGION" default:"us-east-1"`
	BucketName   string `envconfig:"S3_BUCKET_NAME"`
	AccessKey    string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretKey    string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	UsePathStyle bool   `envconfig:"S3_USE_PATH_STYLE" default:"false"`
}

// Enabled reports whether enough settings exist to presign uploads.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.BucketName != ""
}

type APNSConfig struct {
	AuthKeyPath string `envconfig:"APNS_AUTH_KEY_PATH"`
	KeyID       string `envconfig:"APNS_KEY_ID"`
	TeamID      string `envconfig:"APNS_TEAM_ID"`
	Topic       string `envconfig:"APNS_TOPIC"`
	Mode        string `envconfig:"APNS_MODE" default:"development"`
}

func (c APNSConfig) Enabled() bool {
	return c.AuthKeyPath != "" && !strings.HasPrefix(c.AuthKeyPath, "#") && c.KeyID != "" && c.TeamID != ""
}

type AdminConfig struct {
	Username string `envconfig:"ADMIN_USERNAME" default:"admin"`
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	return cfg, nil
}

// UsesInsecureSecret is true when no JWT_SECRET was provided.
func (c Config) UsesInsecureSecret() bool {
	return strings.TrimSpace(c.JWTSecret) == ""
}

// SigningSecret returns JWT_SECRET, or the insecure default when it is unset.
func (c Config) SigningSecret() string {
	if c.UsesInsecureSecret() {
		return InsecureJWTSecret
	}
	return c.JWTSecret
}

// DSN prefers DATABASE_URL and otherwise assembles one from the DB_* variables.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func (c Config) HTTPAddress() string {
	return ":" + c.AppPort
}
