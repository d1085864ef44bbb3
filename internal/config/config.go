package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// OTP storage backends.
const (
	OTPBackendRedis  = "redis"
	OTPBackendMemory = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	OTP          OTPConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	WebRoot               string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AdminEmail            string
	AdminPassword         string
	PreOTPTokenTTLMinutes int
	SessionTTLMinutes     int
	CookieSecure          bool
}

// OTPConfig controls one-time code issuance.
type OTPConfig struct {
	Backend     string
	Length      int
	TTLSeconds  int
	MaxAttempts int
	KeyPrefix   string
	Recipient   string
}

// SMTPConfig configures OTP mail delivery. An empty Host disables SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NotificationConfig holds CRM and chat endpoints used by the inquiry fan-out.
type NotificationConfig struct {
	NotionSecret       string
	NotionDatabaseID   string
	NotionBaseURL      string
	NotionVersion      string
	SlackWebhookURL    string
	SlackSigningSecret string
	HTTPTimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
// Secrets are not validated here; each dependent operation checks its own.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	backend := strings.ToLower(getEnv("OTP_BACKEND", OTPBackendRedis))
	if backend != OTPBackendRedis && backend != OTPBackendMemory {
		return nil, fmt.Errorf("invalid OTP_BACKEND %q", backend)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	adminEmail := os.Getenv("ADMIN_EMAIL")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sfinpay-backoffice"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			WebRoot:               getEnv("WEB_ROOT", "web"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("JWT_SECRET"),
			AdminEmail:            adminEmail,
			AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
			PreOTPTokenTTLMinutes: getEnvAsInt("AUTH_PRE_OTP_TTL_MINUTES", 12*60),
			SessionTTLMinutes:     getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 60),
			CookieSecure:          getEnvAsBool("AUTH_COOKIE_SECURE", true),
		},
		OTP: OTPConfig{
			Backend:     backend,
			Length:      getEnvAsInt("OTP_LENGTH", 6),
			TTLSeconds:  getEnvAsInt("OTP_TTL_SECONDS", 300),
			MaxAttempts: getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
			KeyPrefix:   getEnv("OTP_KEY_PREFIX", "sfin:admin:otp:"),
			Recipient:   getEnv("OTP_RECIPIENT", adminEmail),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@sfinpay.co.kr"),
		},
		Notification: NotificationConfig{
			NotionSecret:       os.Getenv("NOTION_SECRET"),
			NotionDatabaseID:   os.Getenv("NOTION_DATABASE_ID"),
			NotionBaseURL:      getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
			NotionVersion:      getEnv("NOTION_VERSION", "2022-06-28"),
			SlackWebhookURL:    os.Getenv("SLACK_WEBHOOK_URL"),
			SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
			HTTPTimeoutSeconds: getEnvAsInt("NOTIFY_HTTP_TIMEOUT_SECONDS", 10),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDevelopment reports whether the service runs in a local development environment.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MissingSecrets lists unset variables required by the admin login flow.
func (a AuthConfig) MissingSecrets() []string {
	return missing(map[string]string{
		"JWT_SECRET":     a.JWTSecret,
		"ADMIN_EMAIL":    a.AdminEmail,
		"ADMIN_PASSWORD": a.AdminPassword,
	})
}

// PreOTPTokenTTL returns the lifetime of the pre-verification token.
func (a AuthConfig) PreOTPTokenTTL() time.Duration {
	return minutesOr(a.PreOTPTokenTTLMinutes, 12*60)
}

// SessionTTL returns the lifetime of the post-OTP session token.
func (a AuthConfig) SessionTTL() time.Duration {
	return minutesOr(a.SessionTTLMinutes, 60)
}

// TTL returns how long an issued code stays valid.
func (o OTPConfig) TTL() time.Duration {
	if o.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(o.TTLSeconds) * time.Second
}

// Enabled reports whether SMTP delivery is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

// MissingCRMSecrets lists unset variables required to write to the CRM.
func (n NotificationConfig) MissingCRMSecrets() []string {
	return missing(map[string]string{
		"NOTION_SECRET":      n.NotionSecret,
		"NOTION_DATABASE_ID": n.NotionDatabaseID,
	})
}

// MissingChatSecrets lists unset variables required to post chat notifications.
func (n NotificationConfig) MissingChatSecrets() []string {
	return missing(map[string]string{"SLACK_WEBHOOK_URL": n.SlackWebhookURL})
}

// HTTPTimeout bounds each outbound CRM or webhook call.
func (n NotificationConfig) HTTPTimeout() time.Duration {
	if n.HTTPTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.HTTPTimeoutSeconds) * time.Second
}

func missing(values map[string]string) []string {
	var out []string
	for _, key := range sortedKeys(values) {
		if strings.TrimSpace(values[key]) == "" {
			out = append(out, key)
		}
	}
	return out
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func minutesOr(minutes, fallback int) time.Duration {
	if minutes <= 0 {
		minutes = fallback
	}
	return time.Duration(minutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
