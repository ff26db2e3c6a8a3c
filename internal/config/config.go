// Package config provides configuration management for the Portfolio
// Console.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like SERVER_PORT, GATEWAY_BASE_URL)
// 3. Default values
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"invest-console.io/console/internal/session"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
	Worker  WorkerConfig  `mapstructure:"worker"`
	Users   []UserConfig  `mapstructure:"users"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// CORSOrigins lists the dashboard front-end origins allowed to call
	// the API.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Gateway modes.
const (
	GatewayModeHTTP = "http"
	GatewayModeMock = "mock"
)

// GatewayConfig contains backend REST gateway settings.
type GatewayConfig struct {
	// Mode selects the data source: "http" for the real backend,
	// "mock" for the in-memory gateway.
	Mode string `mapstructure:"mode"`

	BaseURL string `mapstructure:"base_url"`

	// Token is the upstream service credential the console presents to
	// the backend. May be rotated at runtime via the admin API.
	Token string `mapstructure:"token"`

	// Timeout bounds every backend request.
	Timeout time.Duration `mapstructure:"timeout"`

	// FixtureFile seeds the mock gateway when mode is "mock".
	FixtureFile string `mapstructure:"fixture_file"`
}

// AuthConfig contains console-side authentication settings.
type AuthConfig struct {
	// JWTSecret signs console session tokens. Auto-generated on first
	// boot when empty.
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	GeneralPoolSize int `mapstructure:"general_pool_size"`
	GatewayPoolSize int `mapstructure:"gateway_pool_size"`
}

// UserConfig declares one console user. Password hashes are bcrypt.
type UserConfig struct {
	Email            string `mapstructure:"email"`
	Name             string `mapstructure:"name"`
	PasswordHash     string `mapstructure:"password_hash"`
	Role             string `mapstructure:"role"`
	PortfolioOwnerID string `mapstructure:"portfolio_owner_id"`
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/portfolio-console")

	// Maps nested config: gateway.base_url → GATEWAY_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.ensureSecrets(); err != nil {
		return nil, fmt.Errorf("ensure secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	switch c.Gateway.Mode {
	case GatewayModeHTTP:
		if c.Gateway.BaseURL == "" {
			return fmt.Errorf("gateway.base_url must be set when gateway.mode is http")
		}
	case GatewayModeMock:
	default:
		return fmt.Errorf("gateway.mode must be http or mock, got %q", c.Gateway.Mode)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}

	for i, u := range c.Users {
		if u.Email == "" || u.PasswordHash == "" {
			return fmt.Errorf("users[%d]: email and password_hash are required", i)
		}
		role := session.Role(u.Role)
		if !role.Valid() {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if role == session.RolePortfolioManager && u.PortfolioOwnerID == "" {
			return fmt.Errorf("users[%d]: portfolio managers need portfolio_owner_id", i)
		}
	}

	return nil
}

// ensureSecrets auto-generates a signing secret on first boot if missing.
func (c *Config) ensureSecrets() error {
	if c.Auth.JWTSecret == "" {
		secret, err := generateSecureRandomHex(32)
		if err != nil {
			return fmt.Errorf("auto-generate jwt secret: %w", err)
		}
		c.Auth.JWTSecret = secret
		logBootstrapWarn(
			"auto-generated auth.jwt_secret; set AUTH_JWT_SECRET env var so sessions survive restarts",
			zap.Int("length", len(secret)),
		)
	}
	return nil
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

// generateSecureRandomHex produces a hex-encoded string of n random bytes.
func generateSecureRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	// Gateway
	v.SetDefault("gateway.mode", "mock")
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.token", "")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.fixture_file", "")

	// Auth
	v.SetDefault("auth.issuer", "portfolio-console")
	v.SetDefault("auth.token_ttl", "12h")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Worker pools
	v.SetDefault("worker.general_pool_size", 50)
	v.SetDefault("worker.gateway_pool_size", 20)
}
