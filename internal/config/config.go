package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	ReconcileKeep  = "keep"
	ReconcilePurge = "purge"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	StaticDir      string `mapstructure:"STATIC_DIR"`
	MaxUploadMB    int64  `mapstructure:"MAX_UPLOAD_MB"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	ReconcileMode  string `mapstructure:"RECONCILE_MODE"`
	TrustProxy     bool   `mapstructure:"TRUST_PROXY"`
	ShowQR         bool   `mapstructure:"SHOW_QR"`
	PublicURL      string `mapstructure:"PUBLIC_URL"`
}

var defaults = map[string]any{
	"PORT":            "5000",
	"UPLOAD_DIR":      "uploads",
	"STATIC_DIR":      "public",
	"MAX_UPLOAD_MB":   512,
	"ENVIRONMENT":     "production",
	"ALLOWED_ORIGINS": "",
	"RECONCILE_MODE":  ReconcileKeep,
	"TRUST_PROXY":     false,
	"SHOW_QR":         true,
	"PUBLIC_URL":      "",
}

// Load читает .env из рабочей директории (если есть) и переменные окружения.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Real environment variables
// take precedence over the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}

	c.ReconcileMode = strings.ToLower(strings.TrimSpace(c.ReconcileMode))
	if c.ReconcileMode != ReconcileKeep && c.ReconcileMode != ReconcilePurge {
		return fmt.Errorf("RECONCILE_MODE must be %q or %q, got %q", ReconcileKeep, ReconcilePurge, c.ReconcileMode)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Origins returns ALLOWED_ORIGINS split on commas, blanks dropped.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
