package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Redis      RedisConfig      `json:"redis"`
	Compliance ComplianceConfig `json:"compliance"`
	Banking    BankingConfig    `json:"banking"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	User              string        `json:"user"`
	Password          string        `json:"password"`
	DBName            string        `json:"db_name"`
	SSLMode           string        `json:"ssl_mode"`
	MaxConnections    int           `json:"max_connections"`
	MaxIdleConns      int           `json:"max_idle_conns"`
	MaxLifetime       time.Duration `json:"max_lifetime"`
	MigrationsEnabled bool          `json:"migrations_enabled"`
}

// RedisConfig configures the distributed ship lock. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	LockTTL  time.Duration `json:"lock_ttl"`
}

// ComplianceConfig holds the regulatory constants for the reporting period.
type ComplianceConfig struct {
	TargetIntensity  float64 `json:"target_intensity"`  // gCO2e/MJ
	ConversionFactor float64 `json:"conversion_factor"` // MJ per tonne of fuel
}

// BankingConfig
type BankingConfig struct {
	AuditSchedule string `json:"audit_schedule"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// Default returns the configuration used when no file or environment overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:              "localhost",
			Port:              5432,
			User:              os.Getenv("USER"),
			DBName:            "fueleu_compliance",
			SSLMode:           "disable",
			MaxConnections:    25,
			MaxIdleConns:      5,
			MaxLifetime:       5 * time.Minute,
			MigrationsEnabled: true,
		},
		Redis: RedisConfig{
			LockTTL: 10 * time.Second,
		},
		Compliance: ComplianceConfig{
			TargetIntensity:  89.3368,
			ConversionFactor: 41000,
		},
		Banking: BankingConfig{
			AuditSchedule: "@hourly",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		config.Database.SSLMode = sslMode
	}
	if migrate := os.Getenv("DATABASE_MIGRATIONS_ENABLED"); migrate != "" {
		if b, err := strconv.ParseBool(migrate); err == nil {
			config.Database.MigrationsEnabled = b
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		config.Redis.Password = pass
	}
	if target := os.Getenv("COMPLIANCE_TARGET_INTENSITY"); target != "" {
		if v, err := strconv.ParseFloat(target, 64); err == nil {
			config.Compliance.TargetIntensity = v
		}
	}
	if factor := os.Getenv("COMPLIANCE_CONVERSION_FACTOR"); factor != "" {
		if v, err := strconv.ParseFloat(factor, 64); err == nil {
			config.Compliance.ConversionFactor = v
		}
	}
	if schedule, ok := os.LookupEnv("BANKING_AUDIT_SCHEDULE"); ok {
		config.Banking.AuditSchedule = schedule
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and db_name are required")
	}
	if c.Compliance.ConversionFactor <= 0 {
		return fmt.Errorf("compliance.conversion_factor must be positive")
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl must be positive when redis is enabled")
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
