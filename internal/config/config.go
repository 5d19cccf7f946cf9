package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	LLM          LLMConfig
	Kafka        KafkaConfig
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
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	ConnectRetries int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr                 string
	Password             string
	DB                   int
	DashboardCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines operator authentication parameters.
type AuthConfig struct {
	Disabled              bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	OperatorUsername      string
	OperatorPasswordHash  string
	OperatorPassword      string
	BcryptCost            int
}

// LLMConfig configures the remote classification service.
type LLMConfig struct {
	APIKey         string
	Model          string
	Endpoint       string
	Temperature    float64
	TimeoutSeconds int
}

// KafkaConfig configures the analysis event stream.
type KafkaConfig struct {
	Brokers     []string
	TicketTopic string
}

// NotificationConfig tunes alerting on analysed tickets.
type NotificationConfig struct {
	ChurnAlertThreshold int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	temperature, err := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-insights"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
			ConnectRetries: getEnvAsInt("POSTGRES_CONNECT_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:                 getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:             os.Getenv("REDIS_PASSWORD"),
			DB:                   redisDB,
			DashboardCacheTTLSec: getEnvAsInt("DASHBOARD_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Disabled:              getEnvAsBool("AUTH_DISABLED", false),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			OperatorUsername:      getEnv("AUTH_OPERATOR_USERNAME", "admin"),
			OperatorPasswordHash:  os.Getenv("AUTH_OPERATOR_PASSWORD_HASH"),
			OperatorPassword:      os.Getenv("AUTH_OPERATOR_PASSWORD"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		LLM: LLMConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
			Endpoint:       os.Getenv("OPENAI_ENDPOINT"),
			Temperature:    temperature,
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 20),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			TicketTopic: getEnv("KAFKA_TICKET_TOPIC", "tickets.analyzed"),
		},
		Notification: NotificationConfig{
			ChurnAlertThreshold: getEnvAsInt("NOTIFY_CHURN_ALERT_THRESHOLD", 70),
		},
	}

	if rt, lt := cfg.App.RequestTimeout(), cfg.LLM.Timeout(); rt > 0 && lt >= rt {
		return nil, fmt.Errorf("OPENAI_TIMEOUT_SECONDS (%s) must be lower than HTTP_REQUEST_TIMEOUT_SECONDS (%s)", lt, rt)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// DashboardCacheTTL returns how long dashboard summaries stay cached.
func (r RedisConfig) DashboardCacheTTL() time.Duration {
	if r.DashboardCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.DashboardCacheTTLSec) * time.Second
}

// Timeout returns the HTTP client timeout for completion calls; zero means none.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// Enabled reports whether events should be forwarded to Kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
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

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
