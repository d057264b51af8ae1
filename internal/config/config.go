package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig `mapstructure:"auth"`
	Redis     RedisConfig
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Log       LogConfig       `mapstructure:"log"`

	// Set from command-line flags, not the config file.
	MigrateOnly bool   `mapstructure:"-"`
	Path        string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig holds the single connection string for the document store.
type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

const (
	AuthModeOpen    = "open"
	AuthModeEnforce = "enforce"
)

type AuthConfig struct {
	Mode        string        `mapstructure:"mode"`
	Secret      string        `mapstructure:"secret"`
	ExpireHours time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type DashboardConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type SeedConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	LessonsFile string `mapstructure:"lessons_file"`
}

// LogConfig controls the rotated JSON log file. An empty File logs to the
// console only.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("auth.mode", AuthModeOpen)
	v.SetDefault("auth.expire_hours", 24)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("dashboard.cache_ttl", "30s")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.lessons_file", "configs/seed_lessons.yaml")
	v.SetDefault("log.file", "logs/nihongo.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
}

// LoadConfig reads config.yaml from path (optional) and overlays the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("NIHONGO")
	v.AutomaticEnv()
	setDefaults(v)

	// The two values the deployment is expected to supply.
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("server.port", "PORT")

	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("auth.mode", "AUTH_MODE")
	v.BindEnv("auth.secret", "AUTH_SECRET")
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.Auth.ExpireHours = cfg.Auth.ExpireHours * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required (set DATABASE_DSN)")
	}
	switch c.Auth.Mode {
	case AuthModeOpen, AuthModeEnforce:
	default:
		return fmt.Errorf("auth.mode must be %q or %q, got %q", AuthModeOpen, AuthModeEnforce, c.Auth.Mode)
	}
	if c.Auth.Mode == AuthModeEnforce && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth secret is too short (%d chars), enforce mode needs at least 32 characters", len(c.Auth.Secret))
	}
	return nil
}
