package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Inventory  InventoryConfig  `yaml:"inventory"`
	Business   BusinessConfig   `yaml:"business"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size" validate:"min=1"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Notifications are disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port" validate:"min=1,max=65535"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" validate:"oneof=postgres sqlite"`
	DSN                    string `yaml:"dsn" validate:"required"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// AuthConfig holds token signing and revocation settings.
type AuthConfig struct {
	JWTSecret       string           `yaml:"jwt_secret" validate:"required,min=16"`
	TokenTTLMinutes int              `yaml:"token_ttl_minutes"`
	Revocation      RevocationConfig `yaml:"revocation"`
}

// RevocationConfig selects where revoked token ids are kept. An empty
// RedisAddr keeps them in process memory.
type RevocationConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// InventoryConfig holds the quantity rules for items.
type InventoryConfig struct {
	LowThreshold      int  `yaml:"low_threshold" validate:"min=1"`
	StrictWithdrawals bool `yaml:"strict_withdrawals"`
}

// BusinessConfig is the tenant configuration served by GET /api/config.
type BusinessConfig struct {
	Name           string         `yaml:"name" json:"name"`
	Industry       string         `yaml:"industry" json:"industry"`
	ItemCategories []string       `yaml:"item_categories" json:"itemCategories"`
	LocationTypes  []string       `yaml:"location_types" json:"locationTypes"`
	TaskTypes      []string       `yaml:"task_types" json:"taskTypes"`
	Units          []string       `yaml:"units" json:"units"`
	CustomFields   map[string]any `yaml:"custom_fields" json:"customFields"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

var validate = validator.New()

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 24 * 60
	}

	if cfg.Inventory.LowThreshold <= 0 {
		cfg.Inventory.LowThreshold = 50
	}

	if cfg.Business.Name == "" {
		cfg.Business.Name = "Your Business"
	}
	if cfg.Business.Industry == "" {
		cfg.Business.Industry = "general"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
