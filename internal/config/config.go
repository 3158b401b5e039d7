package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Admin  AdminConfig
	Draw   DrawConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"raffle_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// AdminConfig holds admin session configuration.
// The default credentials exist only so the service boots in local
// development. Override ADMIN_PASSWORD and JWT_SECRET in any real deployment.
type AdminConfig struct {
	Username  string `envconfig:"ADMIN_USERNAME" default:"admin"`
	Password  string `envconfig:"ADMIN_PASSWORD" default:"admin123"` // CHANGE IN PRODUCTION
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL  int    `envconfig:"ADMIN_TOKEN_TTL" default:"3600"` // seconds
}

// DrawConfig holds raffle draw tuning.
type DrawConfig struct {
	SpinFrames  int `envconfig:"DRAW_SPIN_FRAMES" default:"20"`
	SpinDelayMS int `envconfig:"DRAW_SPIN_DELAY_MS" default:"100"`
}

// SpinDelay returns the pause between spin frames.
func (c DrawConfig) SpinDelay() time.Duration {
	return time.Duration(c.SpinDelayMS) * time.Millisecond
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
