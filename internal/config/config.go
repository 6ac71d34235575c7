// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Logger struct {
	Level string `yaml:"level"`
	Sink  string `yaml:"sink"`
}

type Telegram struct {
	Token string `yaml:"token"`
	// Сколько раз пытаться подключиться к Telegram при старте
	StartAttempts int           `yaml:"start_attempts"`
	StartBackoff  time.Duration `yaml:"start_backoff"`
}

// Storage - где хранится документ: "file" или "postgres"
type Storage struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Document string `yaml:"document"`
}

type Business struct {
	Name      string  `yaml:"name"`
	Address   string  `yaml:"address"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

type Session struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Schedule struct {
	// exclusive | inclusive
	Boundary string `yaml:"boundary"`
}

type Health struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

type Tracing struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type AppConfig struct {
	Logger    Logger    `yaml:"log"`
	Telegram  Telegram  `yaml:"telegram"`
	Storage   Storage   `yaml:"storage"`
	Database  Database  `yaml:"database"`
	Business  Business  `yaml:"business"`
	Session   Session   `yaml:"session"`
	Schedule  Schedule  `yaml:"schedule"`
	Health    Health    `yaml:"health"`
	Tracing   Tracing   `yaml:"tracing"`
	RateLimit RateLimit `yaml:"ratelimit"`
}

// NewConfig читает YAML-файл; .env и переменные окружения перекрывают значения из файла
func NewConfig(path string) (*AppConfig, error) {
	// .env не обязателен
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var appConfig AppConfig
	if err := yaml.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfig.applyEnv()
	appConfig.applyDefaults()

	if appConfig.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is not set (telegram.token or BOT_TOKEN)")
	}

	return &appConfig, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Health.HTTPAddr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Tracing.OTLPEndpoint = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Sink == "" {
		c.Logger.Sink = "stdout"
	}
	if c.Telegram.StartAttempts <= 0 {
		c.Telegram.StartAttempts = 5
	}
	if c.Telegram.StartBackoff <= 0 {
		c.Telegram.StartBackoff = 2 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data.json"
	}
	if c.Storage.Document == "" {
		c.Storage.Document = "bizassist"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Business.Timezone == "" {
		c.Business.Timezone = "Asia/Jerusalem"
	}
	if c.Business.Name == "" {
		c.Business.Name = "העסק שלנו"
	}
	if c.Business.Address == "" {
		c.Business.Address = "רחוב הראשי 123, תל אביב"
	}
	if c.Business.Latitude == 0 && c.Business.Longitude == 0 {
		c.Business.Latitude = 32.0853
		c.Business.Longitude = 34.7818
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = time.Hour
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = 15 * time.Minute
	}
	if c.Health.HTTPAddr == "" {
		c.Health.HTTPAddr = ":10000"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "bizassist"
	}
	if c.Tracing.OTLPEndpoint == "" {
		c.Tracing.OTLPEndpoint = "localhost:4317"
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
	if c.RateLimit.PerSecond <= 0 {
		c.RateLimit.PerSecond = 3
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 10
	}
}
