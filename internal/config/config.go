// Package config loads service configuration from an optional YAML file and
// environment variables. Environment variables win over the file, and
// ${VAR} references inside the YAML are expanded before parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the file nor the environment provides a value.
const (
	DefaultPollInterval = 5 * time.Minute
	DefaultPort         = 8080
	DefaultIMAPPort     = 993
	DefaultMailbox      = "INBOX"
)

// IMAPConfig holds the mailbox connection settings.
type IMAPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Mailbox  string `yaml:"mailbox"`
}

// Addr returns the host:port dial address.
func (c IMAPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds the Cloudinary-style upload credentials. Empty values
// select demo mode.
type StorageConfig struct {
	CloudName    string `yaml:"cloud_name"`
	UploadPreset string `yaml:"upload_preset"`
	Folder       string `yaml:"folder"`
}

// NotifyConfig holds the outbound summary email settings. Empty APIKey
// disables summary emails.
type NotifyConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	HREmail   string `yaml:"hr_email"` // summary recipient; empty disables summaries
}

// Config holds all configuration for the screening service.
type Config struct {
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	RedisAddr    string
	PollInterval time.Duration
	Port         int

	IMAP    IMAPConfig
	Storage StorageConfig
	Notify  NotifyConfig
}

// rawConfig mirrors the YAML file layout.
type rawConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Gemini      struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Monitoring struct {
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"monitoring"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	IMAP    IMAPConfig    `yaml:"imap"`
	Storage StorageConfig `yaml:"storage"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// Load reads configuration from the file named by CONFIG_PATH (default
// config.yaml if present) and the environment. A missing file is not an
// error; env-only deployments are supported.
func Load() (*Config, error) {
	path := envOrDefault("CONFIG_PATH", "config.yaml")

	var raw rawConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{
		DatabaseURL:  firstNonEmpty(os.Getenv("DATABASE_URL"), raw.DatabaseURL),
		GeminiAPIKey: firstNonEmpty(os.Getenv("GEMINI_API_KEY"), raw.Gemini.APIKey),
		GeminiModel:  firstNonEmpty(os.Getenv("GEMINI_MODEL"), raw.Gemini.Model),
		RedisAddr:    firstNonEmpty(os.Getenv("REDIS_ADDR"), raw.Redis.Addr),
		PollInterval: pollInterval(raw.Monitoring.PollInterval),
		Port:         envOrDefaultInt("PORT", nonZero(raw.Server.Port, DefaultPort)),
		IMAP: IMAPConfig{
			Host:     firstNonEmpty(os.Getenv("IMAP_HOST"), raw.IMAP.Host),
			Port:     envOrDefaultInt("IMAP_PORT", nonZero(raw.IMAP.Port, DefaultIMAPPort)),
			Username: firstNonEmpty(os.Getenv("IMAP_USERNAME"), raw.IMAP.Username),
			Password: firstNonEmpty(os.Getenv("IMAP_PASSWORD"), raw.IMAP.Password),
			Mailbox:  firstNonEmpty(os.Getenv("IMAP_MAILBOX"), raw.IMAP.Mailbox, DefaultMailbox),
		},
		Storage: StorageConfig{
			CloudName:    firstNonEmpty(os.Getenv("CLOUDINARY_CLOUD_NAME"), raw.Storage.CloudName),
			UploadPreset: firstNonEmpty(os.Getenv("CLOUDINARY_UPLOAD_PRESET"), raw.Storage.UploadPreset),
			Folder:       firstNonEmpty(os.Getenv("CLOUDINARY_FOLDER"), raw.Storage.Folder, "hr360/resumes"),
		},
		Notify: NotifyConfig{
			APIKey:    firstNonEmpty(os.Getenv("SENDGRID_API_KEY"), raw.Notify.APIKey),
			FromEmail: firstNonEmpty(os.Getenv("NOTIFY_FROM_EMAIL"), raw.Notify.FromEmail, "noreply@hr360.app"),
			FromName:  firstNonEmpty(os.Getenv("NOTIFY_FROM_NAME"), raw.Notify.FromName, "HR360 Screening"),
			HREmail:   firstNonEmpty(os.Getenv("NOTIFY_HR_EMAIL"), raw.Notify.HREmail),
		},
	}

	return cfg, nil
}

// Validate checks the settings required to run the monitor. The API server
// alone only needs DatabaseURL.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.IMAP.Host == "" {
		return fmt.Errorf("config error: IMAP host is required")
	}
	if c.IMAP.Username == "" || c.IMAP.Password == "" {
		return fmt.Errorf("config error: IMAP credentials are required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config error: poll interval must be positive")
	}
	return nil
}

func pollInterval(fromFile string) time.Duration {
	for _, v := range []string{os.Getenv("POLL_INTERVAL"), fromFile} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultPollInterval
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func nonZero(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
