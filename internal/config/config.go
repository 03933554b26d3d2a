package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config holds process configuration read from the environment
type Config struct {
	DatabaseURL string
	Port        int
	LogLevel    string
	AppEnv      string

	CRMEndpoint    string
	RequestTimeout time.Duration

	HeartbeatLog      string
	LowStockLog       string
	OrderRemindersLog string
	ScheduleFile      string

	Redis RedisConfig
	Minio MinioConfig
}

// RedisConfig is optional; an empty Addr disables the run store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinioConfig is optional; an empty Endpoint disables log archiving
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	ArchiveBucket string
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }

// Load reads a .env file when present, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AppEnv:            getEnv("APP_ENV", "development"),
		CRMEndpoint:       getEnv("CRM_ENDPOINT", "http://localhost:8080/graphql"),
		HeartbeatLog:      getEnv("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
		LowStockLog:       getEnv("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt"),
		OrderRemindersLog: getEnv("ORDER_REMINDERS_LOG", "/tmp/order_reminders_log.txt"),
		ScheduleFile:      os.Getenv("SCHEDULE_FILE"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Minio: MinioConfig{
			Endpoint:      os.Getenv("MINIO_ENDPOINT"),
			AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:        strings.EqualFold(os.Getenv("MINIO_USE_SSL"), "true"),
			ArchiveBucket: getEnv("LOG_ARCHIVE_BUCKET", "crm-job-logs"),
		},
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q", os.Getenv("REQUEST_TIMEOUT"))
	}
	cfg.RequestTimeout = timeout

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.Redis.DB = db
	}

	return cfg, nil
}

// RequireDatabase fails when no DSN is configured
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

// SetupLogging configures the global zerolog logger. Development gets a
// console writer, everything else JSON on stdout.
func (c *Config) SetupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.AppEnv == "development" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		return
	}
	zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
