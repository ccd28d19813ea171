package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the dashboard host configuration. Values come from an optional YAML file
// (CONFIG_FILE) and are overridden by environment variables.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowed_origins"` // comma-separated; empty disables CORS
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	TTL           time.Duration `yaml:"ttl"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
	CookieSecure  bool          `yaml:"cookie_secure"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Defaults returns the configuration used when neither file nor env say otherwise.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			PurgeInterval: 5 * time.Minute,
			CookieSecure:  true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load reads CONFIG_FILE (if set) and then applies environment overrides.
// Callers load .env beforehand with godotenv.
func Load() (*Config, error) {
	return LoadFromFile(os.Getenv("CONFIG_FILE"))
}

// LoadFromFile is Load with an explicit file path; an empty path skips the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.Errorf("invalid server port %q", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return errors.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.PurgeInterval <= 0 {
		return errors.Errorf("session purge interval must be positive, got %s", c.Session.PurgeInterval)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")

	if err := setDuration(&cfg.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Session.PurgeInterval, "SESSION_PURGE_INTERVAL"); err != nil {
		return err
	}
	if err := setBool(&cfg.Session.CookieSecure, "COOKIE_SECURE"); err != nil {
		return err
	}
	if err := setBool(&cfg.Log.Compress, "LOG_COMPRESS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Log.MaxSizeMB, "LOG_MAX_SIZE_MB"); err != nil {
		return err
	}
	if err := setInt(&cfg.Log.MaxBackups, "LOG_MAX_BACKUPS"); err != nil {
		return err
	}
	return setInt(&cfg.Log.MaxAgeDays, "LOG_MAX_AGE_DAYS")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = n
	return nil
}
