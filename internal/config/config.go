package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig       `mapstructure:"jwt"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	MagicLink MagicLinkConfig `mapstructure:"magic_link"`
	Results   ResultsConfig   `mapstructure:"results"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Runtime flags (set from command line, not from the config file).
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type CaptchaConfig struct {
	// Required forces bot verification on every submission; when false an
	// absent token is treated as "skip verification" for first-time
	// anonymous flows.
	Required bool          `mapstructure:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl_minutes"`
}

type MagicLinkConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl_minutes"`
}

type ResultsConfig struct {
	// AnonymousWindow is how long after creation a result stays readable
	// without a token.
	AnonymousWindow time.Duration `mapstructure:"anonymous_window_minutes"`
	// Fixed-window rate limit applied per client address ahead of lookups.
	RateMaxRequests int           `mapstructure:"rate_max_requests"`
	RateWindow      time.Duration `mapstructure:"rate_window_seconds"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
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

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LEAP")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Captcha.TokenTTL = cfg.Captcha.TokenTTL * time.Minute
	cfg.MagicLink.TokenTTL = cfg.MagicLink.TokenTTL * time.Minute
	cfg.Results.AnonymousWindow = cfg.Results.AnonymousWindow * time.Minute
	cfg.Results.RateWindow = cfg.Results.RateWindow * time.Second

	if cfg.Captcha.TokenTTL == 0 {
		cfg.Captcha.TokenTTL = 2 * time.Minute
	}
	if cfg.MagicLink.TokenTTL == 0 {
		cfg.MagicLink.TokenTTL = 15 * time.Minute
	}
	if cfg.Results.AnonymousWindow == 0 {
		cfg.Results.AnonymousWindow = 10 * time.Minute
	}
	if cfg.Results.RateMaxRequests == 0 {
		cfg.Results.RateMaxRequests = 30
	}
	if cfg.Results.RateWindow == 0 {
		cfg.Results.RateWindow = time.Minute
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
