// Package config loads runtime configuration from a YAML file with
// environment variable overrides. A .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "configuration.yaml"

// AppConfig holds runtime startup configuration.
type AppConfig struct {
	Port           int        `yaml:"port"`
	Env            string     `yaml:"env"` // "development" | "production"
	BaseURL        string     `yaml:"base_url"`
	DSN            string     `yaml:"dsn"` // MySQL DSN
	JWTSecret      string     `yaml:"jwt_secret"`
	HMACSecret     string     `yaml:"hmac_secret"`
	AllowedOrigins []string   `yaml:"allowed_origins"`
	Mail           MailConfig `yaml:"mail"`
}

// MailConfig configures the outbound email collaborator.
type MailConfig struct {
	BaseURL        string `yaml:"base_url"`
	Sender         string `yaml:"sender"`
	ServerToken    string `yaml:"server_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads the YAML file at path, then applies env overrides and defaults.
// A missing file is not an error; env-only configuration is supported.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required (set dsn in %s or APP_DSN)", path)
	}
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("APP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("APP_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("APP_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("APP_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("APP_HMAC_SECRET"); v != "" {
		c.HMACSecret = v
	}
	if v := os.Getenv("APP_MAIL_BASE_URL"); v != "" {
		c.Mail.BaseURL = v
	}
	if v := os.Getenv("APP_MAIL_SENDER"); v != "" {
		c.Mail.Sender = v
	}
	if v := os.Getenv("APP_MAIL_SERVER_TOKEN"); v != "" {
		c.Mail.ServerToken = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Env == "" {
		c.Env = "production"
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Mail.TimeoutSeconds <= 0 {
		c.Mail.TimeoutSeconds = 10
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// MailTimeout returns the email client timeout as a duration.
func (c *AppConfig) MailTimeout() time.Duration {
	return time.Duration(c.Mail.TimeoutSeconds) * time.Second
}
