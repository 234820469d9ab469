package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env                string         `yaml:"env"`
	Port               string         `yaml:"port"`
	JWTSecret          string         `yaml:"jwt_secret"`
	SessionTTL         time.Duration  `yaml:"session_ttl"`
	LoginURL           string         `yaml:"login_url"`
	CORSAllowedOrigins []string       `yaml:"cors_allowed_origins"`
	Database           DatabaseConfig `yaml:"database"`
	R2                 R2Config       `yaml:"r2"`
	Google             GoogleSettings `yaml:"google"`
	Tracing            TracingConfig  `yaml:"tracing"`
}

type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name"`
	PublicURL       string `yaml:"public_url"`
	Region          string `yaml:"region"`
}

// Enabled reports whether post image uploads can be served.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != "" && r.BucketName != ""
}

// IsProduction selects the production log encoder and secure cookies.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

type GoogleSettings struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type TracingConfig struct {
	Exporter    string `yaml:"exporter"` // none, stdout or otlp
	ServiceName string `yaml:"service_name"`
}

func defaults() *Config {
	return &Config{
		Env:        "development",
		Port:       "8080",
		SessionTTL: 7 * 24 * time.Hour,
		LoginURL:   "/auth/login/",
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		R2:      R2Config{Region: "auto"},
		Tracing: TracingConfig{Exporter: "none", ServiceName: "blogicum"},
	}
}

// Load reads .env (when present), the optional YAML file named by
// CONFIG_FILE, and finally the process environment, later sources winning.
func Load() (*Config, error) {
	// Missing .env is normal in production.
	_ = godotenv.Load()

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envString("APP_ENV", &cfg.Env)
	envString("PORT", &cfg.Port)
	envString("JWT_SECRET", &cfg.JWTSecret)
	envString("LOGIN_URL", &cfg.LoginURL)
	if err := envDuration("SESSION_TTL", &cfg.SessionTTL); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	envString("DB_DRIVER", &cfg.Database.Driver)
	envString("DATABASE_URL", &cfg.Database.URL)
	envString("DB_HOST", &cfg.Database.Host)
	envString("DB_USER", &cfg.Database.User)
	envString("DB_PASSWORD", &cfg.Database.Password)
	envString("DB_NAME", &cfg.Database.Name)
	envString("DB_PORT", &cfg.Database.Port)
	envString("DB_SSLMODE", &cfg.Database.SSLMode)

	envString("CLOUDFLARE_ACCOUNT_ID", &cfg.R2.AccountID)
	envString("CLOUDFLARE_ACCESS_KEY_ID", &cfg.R2.AccessKeyID)
	envString("CLOUDFLARE_SECRET_ACCESS_KEY", &cfg.R2.SecretAccessKey)
	envString("CLOUDFLARE_BUCKET_NAME", &cfg.R2.BucketName)
	envString("CLOUDFLARE_PUBLIC_URL", &cfg.R2.PublicURL)

	envString("GOOGLE_CLIENT_ID", &cfg.Google.ClientID)
	envString("GOOGLE_CLIENT_SECRET", &cfg.Google.ClientSecret)
	envString("GOOGLE_REDIRECT_URL", &cfg.Google.RedirectURL)

	envString("OTEL_EXPORTER", &cfg.Tracing.Exporter)
	envString("OTEL_SERVICE_NAME", &cfg.Tracing.ServiceName)
	return nil
}

func envString(name string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
