package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config cryolab-data（HTTP API）配置
// Values come from an optional YAML file (CONFIG_FILE) with env vars taking
// precedence, so docker-compose can override single knobs.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DBEnabled bool           `yaml:"db_enabled"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// DatabaseConfig PostgreSQL 连接配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MaxIdle  int    `yaml:"max_idle"`
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// WebhookConfig 会话创建通知配置（可选；URL 为空即禁用）
type WebhookConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

func Load() *Config {
	cfg := &Config{}

	// YAML file first (optional), env overrides after.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", defString(cfg.HTTP.Addr, ":8080"))

	// Default to true for local dev: if DB is unavailable, cryolab-data
	// falls back to in-memory repos instead of refusing to start.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", defString(cfg.Database.Host, "localhost"))
	cfg.Database.Port = parseInt(getEnv("DB_PORT", ""), defInt(cfg.Database.Port, 5432))
	cfg.Database.User = getEnv("DB_USER", defString(cfg.Database.User, "postgres"))
	cfg.Database.Password = getEnv("DB_PASSWORD", defString(cfg.Database.Password, "postgres"))
	cfg.Database.Database = getEnv("DB_NAME", defString(cfg.Database.Database, "cryolab"))
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", defString(cfg.Database.SSLMode, "disable"))
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", ""), defInt(cfg.Database.MaxConns, 10))
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", ""), defInt(cfg.Database.MaxIdle, 5))

	cfg.Redis.Addr = getEnv("REDIS_ADDR", defString(cfg.Redis.Addr, "localhost:6379"))
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", ""), cfg.Redis.DB)

	cfg.Log.Level = getEnv("LOG_LEVEL", defString(cfg.Log.Level, "info"))
	cfg.Log.Format = getEnv("LOG_FORMAT", defString(cfg.Log.Format, "json"))

	cfg.Webhook.URL = getEnv("WEBHOOK_URL", cfg.Webhook.URL)
	cfg.Webhook.TimeoutSec = parseInt(getEnv("WEBHOOK_TIMEOUT_SEC", ""), defInt(cfg.Webhook.TimeoutSec, 10))

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func defString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func defInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
