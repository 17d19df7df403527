package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/smarthealth/pkg/validator"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Listing ListingConfig `mapstructure:"listing"`
	Log     LogConfig     `mapstructure:"log"`
	Mock    MockConfig    `mapstructure:"mock"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url" json:"api.base_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" json:"api.timeout" validate:"gt=0"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps" json:"api.rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" json:"api.rate_limit_burst" validate:"gte=0"`
	UserAgent      string        `mapstructure:"user_agent" json:"api.user_agent"`
}

type SessionConfig struct {
	// Store is one of file, redis or memory
	Store        string        `mapstructure:"store" json:"session.store" validate:"oneof=file redis memory"`
	FilePath     string        `mapstructure:"file_path" json:"session.file_path"`
	RedisURL     string        `mapstructure:"redis_url" json:"session.redis_url" validate:"required_if=Store redis"`
	RedisKey     string        `mapstructure:"redis_key" json:"session.redis_key"`
	RedisTimeout time.Duration `mapstructure:"redis_timeout" json:"session.redis_timeout"`
}

type ListingConfig struct {
	PageSize       int           `mapstructure:"page_size" json:"listing.page_size" validate:"gt=0"`
	SearchDelay    time.Duration `mapstructure:"search_delay" json:"listing.search_delay" validate:"gte=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"listing.request_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"log.level"`
	Format string `mapstructure:"format" json:"log.format" validate:"oneof=console json ecs"`
}

type MockConfig struct {
	Addr           string        `mapstructure:"addr" json:"mock.addr"`
	Prefix         string        `mapstructure:"prefix" json:"mock.prefix"`
	JWTSecret      string        `mapstructure:"jwt_secret" json:"mock.jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl" json:"mock.token_ttl"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps" json:"mock.rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" json:"mock.rate_limit_burst"`
	Seed           bool          `mapstructure:"seed" json:"mock.seed"`
	AdminEmail     string        `mapstructure:"admin_email" json:"mock.admin_email"`
	AdminPassword  string        `mapstructure:"admin_password" json:"mock.admin_password"`
}

// overrides are read from SMARTHEALTH_* variables after the file is merged
type overrides struct {
	APIURL       string        `envconfig:"API_URL"`
	APITimeout   time.Duration `envconfig:"API_TIMEOUT"`
	SessionStore string        `envconfig:"SESSION_STORE"`
	SessionFile  string        `envconfig:"SESSION_FILE"`
	RedisURL     string        `envconfig:"REDIS_URL"`
	PageSize     int           `envconfig:"PAGE_SIZE"`
	LogLevel     string        `envconfig:"LOG_LEVEL"`
	LogFormat    string        `envconfig:"LOG_FORMAT"`
	MockAddr     string        `envconfig:"MOCK_ADDR"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
}

const envPrefix = "SMARTHEALTH"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit_rps", 20.0)
	v.SetDefault("api.rate_limit_burst", 40)
	v.SetDefault("api.user_agent", "smarthealth-cli")

	v.SetDefault("session.store", "file")
	v.SetDefault("session.file_path", defaultSessionPath())
	v.SetDefault("session.redis_key", "smarthealth:session")
	v.SetDefault("session.redis_timeout", 2*time.Second)

	v.SetDefault("listing.page_size", 6)
	v.SetDefault("listing.search_delay", 500*time.Millisecond)
	v.SetDefault("listing.request_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("mock.addr", ":8080")
	v.SetDefault("mock.prefix", "/api")
	v.SetDefault("mock.jwt_secret", "change-me")
	v.SetDefault("mock.token_ttl", 24*time.Hour)
	v.SetDefault("mock.rate_limit_rps", 50.0)
	v.SetDefault("mock.rate_limit_burst", 100)
	v.SetDefault("mock.seed", true)
	v.SetDefault("mock.admin_email", "admin@smarthealth.local")
	v.SetDefault("mock.admin_password", "Admin@123")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smarthealth-session.json"
	}
	return filepath.Join(home, ".smarthealth", "session.json")
}

// Load reads configuration from path, or from smarthealth.yaml in the usual
// search paths when path is empty. A missing file in the search paths is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("smarthealth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".smarthealth"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o overrides
	if err := envconfig.Process(envPrefix, &o); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if o.APIURL != "" {
		c.API.BaseURL = o.APIURL
	}
	if o.APITimeout > 0 {
		c.API.Timeout = o.APITimeout
	}
	if o.SessionStore != "" {
		c.Session.Store = strings.ToLower(o.SessionStore)
	}
	if o.SessionFile != "" {
		c.Session.FilePath = o.SessionFile
	}
	if o.RedisURL != "" {
		c.Session.RedisURL = o.RedisURL
	}
	if o.PageSize > 0 {
		c.Listing.PageSize = o.PageSize
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.MockAddr != "" {
		c.Mock.Addr = o.MockAddr
	}
	if o.JWTSecret != "" {
		c.Mock.JWTSecret = o.JWTSecret
	}
	return nil
}

func (c *Config) Validate() error {
	v := validator.New()
	for _, section := range []interface{}{c.API, c.Session, c.Listing, c.Log} {
		if err := v.Validate(section); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}
