// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration. It is built once at startup
// and handed to the components that need it.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Media     MediaConfig
	BotCheck  BotCheckConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
	IdleTimeout    int // seconds
	CORSOrigins    []string
	MaxBodyBytes   int64
	MaxUploadBytes int64
	Metrics        bool
	// TrustedProxies are the peers (IPs or CIDRs) whose X-Forwarded-For is honoured.
	TrustedProxies []string
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	Debug      bool
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	JWTSecret string
	// EventAdminOverride lets the elevated role delete any event.
	EventAdminOverride bool
}

// MediaConfig selects and configures the media store. Driver is
// "cloudinary" or "disk".
type MediaConfig struct {
	Driver              string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	CloudinaryBaseURL   string
	DiskDir             string
	PublicBaseURL       string
}

// BotCheckConfig configures reCAPTCHA verification. An empty secret
// disables the check (dev only).
type BotCheckConfig struct {
	RecaptchaSecret string
	VerifyURL       string
}

// RateLimitConfig configures login/apply throttling. Backend is "memory" or "redis".
type RateLimitConfig struct {
	Backend        string
	RedisAddr      string
	RedisPassword  string
	LoginPerMinute int
	ApplyPerMinute int
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	LogLevel   string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
			MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 50<<20)),
			Metrics:        getEnvBool("METRICS", true),
			TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "clubhub"),
			Password:   getEnv("DB_PASSWORD", "clubhub"),
			DBName:     getEnv("DB_NAME", "clubhub"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "clubhub.db"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			EventAdminOverride: getEnvBool("EVENT_DELETE_ADMIN_OVERRIDE", false),
		},
		Media: MediaConfig{
			Driver:              getEnv("MEDIA_DRIVER", "disk"),
			CloudinaryCloudName: strings.TrimSpace(getEnv("CLOUDINARY_CLOUD_NAME", "")),
			CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "college_clubs"),
			CloudinaryBaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
			DiskDir:             getEnv("MEDIA_DIR", "uploads"),
			PublicBaseURL:       getEnv("MEDIA_PUBLIC_URL", "/uploads"),
		},
		BotCheck: BotCheckConfig{
			RecaptchaSecret: getEnv("RECAPTCHA_SECRET", ""),
			VerifyURL:       getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		},
		RateLimit: RateLimitConfig{
			Backend:        getEnv("RATE_LIMIT_BACKEND", "memory"),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			LoginPerMinute: getEnvInt("LOGIN_PER_MINUTE", 10),
			ApplyPerMinute: getEnvInt("APPLY_PER_MINUTE", 5),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", false),
			Migrations: getEnvBool("MIGRATIONS", false),
			LogLevel:   getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate reports configuration that cannot produce a working server.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		if !c.App.Dev {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}
	switch c.Media.Driver {
	case "disk":
	case "cloudinary":
		if c.Media.CloudinaryCloudName == "" || c.Media.CloudinaryAPIKey == "" || c.Media.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("cloudinary media driver needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_DRIVER %q", c.Media.Driver))
	}
	switch c.RateLimit.Backend {
	case "memory", "redis", "off":
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend))
	}
	for _, p := range c.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p))
		}
	}
	if c.BotCheck.RecaptchaSecret == "" && !c.App.Dev {
		errs = append(errs, errors.New("RECAPTCHA_SECRET is required"))
	}
	return errors.Join(errs...)
}

// JWTSecret returns the signing secret, falling back to a fixed value in dev mode.
func (c *Config) JWTSecret() string {
	if c.Auth.JWTSecret == "" && c.App.Dev {
		return "dev-jwt-secret"
	}
	return c.Auth.JWTSecret
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
