package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	AppEnv    string
	Port      string
	Database  DatabaseConfig
	KV        KVConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
}

// DatabaseConfig selects the gorm driver and its connection settings
type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URL        string
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SQLitePath string
}

// KVConfig selects where the product snapshot is persisted
type KVConfig struct {
	Backend     string // database | redis | memory
	RedisAddr   string
	RedisPrefix string
}

type AuthConfig struct {
	Enabled bool
	Secret  string
}

// DashboardConfig controls the timers of dashboard sessions
type DashboardConfig struct {
	RefreshDelay     time.Duration
	SimulatedLatency time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendDatabase = "database"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "ppm"),
			Port:       getEnv("DB_PORT", "5432"),
			SQLitePath: getEnv("SQLITE_PATH", "ppm.db"),
		},
		KV: KVConfig{
			Backend:     strings.ToLower(getEnv("KV_BACKEND", BackendDatabase)),
			RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPrefix: getEnv("REDIS_PREFIX", "ppm:"),
		},
		Auth: AuthConfig{
			Enabled: getEnvBool("AUTH_ENABLED", true),
			Secret:  os.Getenv("JWT_SECRET"),
		},
		Dashboard: DashboardConfig{
			RefreshDelay:     getEnvMillis("REFRESH_DELAY_MS", 300),
			SimulatedLatency: getEnvMillis("SIMULATED_LATENCY_MS", 0),
		},
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	switch cfg.KV.Backend {
	case BackendDatabase, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unsupported KV_BACKEND %q", cfg.KV.Backend)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvMillis(key string, defaultValue int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 0 {
		n = defaultValue
	}
	return time.Duration(n) * time.Millisecond
}
