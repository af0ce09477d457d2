// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration values. A YAML file provides the
// base values; environment variables override them field by field.
type Config struct {
	Env       string          `yaml:"env"`       // application environment (dev/test/prod)
	Host      string          `yaml:"host"`      // interface to bind
	Port      string          `yaml:"port"`      // HTTP port to listen on
	Debug     bool            `yaml:"debug"`     // verbose errors and debug logging
	LogLevel  string          `yaml:"logLevel"`  // debug, info, warn, error
	SecretKey string          `yaml:"secretKey"` // signs session cookies
	DB        DBConfig        `yaml:"db"`
	Uploads   UploadConfig    `yaml:"uploads"`
	Session   SessionConfig   `yaml:"session"`
	Admin     AdminConfig     `yaml:"admin"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// DBConfig carries the MySQL connection parameters.
type DBConfig struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Name string `yaml:"name"`
}

// UploadConfig controls where uploaded files land and how images are shrunk.
type UploadConfig struct {
	Dir             string   `yaml:"dir"`
	MaxSize         string   `yaml:"maxSize"` // echo body limit notation, e.g. "100M"
	ImageExtensions []string `yaml:"imageExtensions"`
	VideoExtensions []string `yaml:"videoExtensions"`
	MaxWidth        int      `yaml:"maxWidth"`
	MaxHeight       int      `yaml:"maxHeight"`
	Quality         int      `yaml:"quality"`
}

// SessionConfig controls the admin session cookie.
type SessionConfig struct {
	CookieName string        `yaml:"cookieName"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

// AdminConfig describes the bootstrap administrator and hashing cost.
type AdminConfig struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	BcryptCost int    `yaml:"bcryptCost"`
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Env:      "dev",
		Host:     "0.0.0.0",
		Port:     "8000",
		LogLevel: "info",
		DB: DBConfig{
			Host: "127.0.0.1",
			Port: "3306",
		},
		Uploads: UploadConfig{
			Dir:             "uploads",
			MaxSize:         "100M",
			ImageExtensions: []string{"png", "jpg", "jpeg", "gif", "webp"},
			VideoExtensions: []string{"mp4", "avi", "mov", "wmv", "flv", "webm"},
			MaxWidth:        800,
			MaxHeight:       800,
			Quality:         85,
		},
		Session: SessionConfig{
			CookieName: "cms_session",
			TTL:        12 * time.Hour,
		},
		Admin: AdminConfig{
			Username:   "admin",
			Password:   "admin123",
			BcryptCost: 12,
		},
		Redis:     defaultRedisConfig(),
		RateLimit: defaultRateLimitConfig(),
	}
}

// Load reads the optional YAML file at path, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.RateLimit.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = envStr("APP_ENV", c.Env)
	c.Host = envStr("APP_HOST", c.Host)
	c.Port = envStr("APP_PORT", c.Port)
	c.Debug = envBool("DEBUG", c.Debug)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.SecretKey = envStr("SECRET_KEY", c.SecretKey)

	c.DB.User = envStr("DB_USER", c.DB.User)
	c.DB.Pass = envStr("DB_PASS", c.DB.Pass)
	c.DB.Host = envStr("DB_HOST", c.DB.Host)
	c.DB.Port = envStr("DB_PORT", c.DB.Port)
	c.DB.Name = envStr("DB_NAME", c.DB.Name)

	c.Uploads.Dir = envStr("UPLOAD_DIR", c.Uploads.Dir)
	c.Uploads.MaxSize = envStr("MAX_UPLOAD_SIZE", c.Uploads.MaxSize)
	c.Uploads.ImageExtensions = envList("IMAGE_EXTENSIONS", c.Uploads.ImageExtensions)
	c.Uploads.VideoExtensions = envList("VIDEO_EXTENSIONS", c.Uploads.VideoExtensions)
	c.Uploads.MaxWidth = envInt("IMAGE_MAX_WIDTH", c.Uploads.MaxWidth)
	c.Uploads.MaxHeight = envInt("IMAGE_MAX_HEIGHT", c.Uploads.MaxHeight)
	c.Uploads.Quality = envInt("IMAGE_QUALITY", c.Uploads.Quality)

	c.Session.CookieName = envStr("SESSION_COOKIE_NAME", c.Session.CookieName)
	c.Session.TTL = envDur("SESSION_TTL", c.Session.TTL)
	c.Session.Secure = envBool("SESSION_COOKIE_SECURE", c.Session.Secure)

	c.Admin.Username = envStr("ADMIN_USERNAME", c.Admin.Username)
	c.Admin.Password = envStr("ADMIN_PASSWORD", c.Admin.Password)
	c.Admin.BcryptCost = envInt("BCRYPT_COST", c.Admin.BcryptCost)

	c.Redis.applyEnv()
	c.RateLimit.applyEnv()
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DB.User) == "" {
		missing = append(missing, "DB_USER")
	}
	if strings.TrimSpace(c.DB.Host) == "" {
		missing = append(missing, "DB_HOST")
	}
	if strings.TrimSpace(c.DB.Name) == "" {
		missing = append(missing, "DB_NAME")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.Uploads.Dir == "" {
		return errors.New("upload dir must not be empty")
	}
	if c.Uploads.MaxWidth <= 0 || c.Uploads.MaxHeight <= 0 {
		return fmt.Errorf("image bounds must be positive, got %dx%d", c.Uploads.MaxWidth, c.Uploads.MaxHeight)
	}
	if c.Uploads.Quality < 1 || c.Uploads.Quality > 100 {
		return fmt.Errorf("image quality must be within 1..100, got %d", c.Uploads.Quality)
	}
	if c.Admin.BcryptCost < 4 || c.Admin.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be within 4..31, got %d", c.Admin.BcryptCost)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}
