package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service names one of the deployable binaries
type Service string

const (
	ServiceAuth       Service = "auth-service"
	ServiceHR         Service = "hr-service"
	ServiceEnrichment Service = "enrichment-service"
)

// defaultPorts mirror the ports the browser frontend expects
var defaultPorts = map[Service]int{
	ServiceAuth:       8001,
	ServiceHR:         8002,
	ServiceEnrichment: 8003,
}

// Config represents the complete application configuration
type Config struct {
	Service           Service
	Server            ServerConfig
	Database          DatabaseConfig
	Auth              AuthConfig
	Enrichment        EnrichmentConfig
	EnrichmentService EnrichmentServiceConfig
	CORS              CORSConfig
	Observability     ObservabilityConfig
	Environment       string
	Seed              SeedConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// AuthConfig holds token signing and login throttling settings
type AuthConfig struct {
	JWTSecret      string
	JWTIssuer      string
	TokenTTL       time.Duration
	ClockSkew      time.Duration
	BcryptCost     int
	LoginRateLimit float64
	LoginBurst     int
}

// EnrichmentConfig describes the third-party text generation backend
type EnrichmentConfig struct {
	APIURL        string
	APIKey        string
	Model         string
	ResponseShape string
	Timeout       time.Duration
	MaxRetries    int
	BackoffBase   time.Duration
	MaxConcurrent int64
	RedactPII     bool
}

// Enabled reports whether a backend URL is configured for in-process use
func (c EnrichmentConfig) Enabled() bool {
	return c.APIURL != ""
}

// EnrichmentServiceConfig points hr-service at a remote enrichment-service
type EnrichmentServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// CORSConfig holds the browser origins allowed to call the services
type CORSConfig struct {
	AllowedOrigins []string
}

// SeedConfig controls loading demo users into an empty store at startup
type SeedConfig struct {
	DemoUsers    bool
	DemoPassword string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New loads the configuration for a service from the environment and validates it
func New(ctx context.Context, service Service) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Load(service)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Load reads every section from the environment without validating
func Load(service Service) *Config {
	return &Config{
		Service:     service,
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:              getEnv("SERVER_HOST", "0.0.0.0"),
			Port:              getPort(defaultPorts[service]),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 150*time.Second),
			RequestTimeout:    getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 140*time.Second),
			ShutdownTimeout:   getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustProxyHeaders: getEnvAsBool("TRUST_PROXY_HEADERS", false),
		},
		Database: loadDatabaseConfig(),
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			JWTIssuer:      getEnv("JWT_ISSUER", "hr-platform"),
			TokenTTL:       getEnvAsDuration("JWT_TTL", 24*time.Hour),
			ClockSkew:      getEnvAsDuration("JWT_CLOCK_SKEW", 30*time.Second),
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 0),
			LoginRateLimit: getEnvAsFloat("LOGIN_RATE_LIMIT_RPS", 1),
			LoginBurst:     getEnvAsInt("LOGIN_RATE_LIMIT_BURST", 5),
		},
		Enrichment: EnrichmentConfig{
			APIURL:        getEnv("ENRICHMENT_API_URL", ""),
			APIKey:        getEnv("ENRICHMENT_API_KEY", ""),
			Model:         getEnv("ENRICHMENT_MODEL", "gpt2"),
			ResponseShape: getEnv("ENRICHMENT_RESPONSE_SHAPE", "completions"),
			Timeout:       getEnvAsDuration("ENRICHMENT_TIMEOUT", 30*time.Second),
			MaxRetries:    getEnvAsInt("ENRICHMENT_MAX_RETRIES", 2),
			BackoffBase:   getEnvAsDuration("ENRICHMENT_BACKOFF_BASE", 2*time.Second),
			MaxConcurrent: int64(getEnvAsInt("ENRICHMENT_MAX_CONCURRENT", 8)),
			RedactPII:     getEnvAsBool("ENRICHMENT_REDACT_PII", true),
		},
		EnrichmentService: EnrichmentServiceConfig{
			URL:     getEnv("ENRICHMENT_SERVICE_URL", "http://localhost:8003"),
			Timeout: getEnvAsDuration("ENRICHMENT_SERVICE_TIMEOUT", 120*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
		Seed: SeedConfig{
			DemoUsers:    getEnvAsBool("SEED_DEMO_USERS", false),
			DemoPassword: getEnv("SEED_DEMO_PASSWORD", ""),
		},
	}
}

// Validate checks that every setting the service needs is present
func (c *Config) Validate() error {
	if _, ok := defaultPorts[c.Service]; !ok {
		return fmt.Errorf("unknown service %q", c.Service)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	if c.needsDatabase() {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Seed.DemoUsers && c.Service == ServiceAuth && len(c.Seed.DemoPassword) < 8 {
		return fmt.Errorf("SEED_DEMO_PASSWORD of at least 8 characters is required when SEED_DEMO_USERS is set")
	}

	if c.needsSigningKey() {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for %s", c.Service)
		}
		if c.Auth.TokenTTL <= 0 {
			return fmt.Errorf("JWT_TTL must be positive")
		}
		if c.Auth.ClockSkew < 0 {
			return fmt.Errorf("JWT_CLOCK_SKEW cannot be negative")
		}
	}

	switch c.Service {
	case ServiceEnrichment:
		if err := c.Enrichment.validate(); err != nil {
			return err
		}
	case ServiceHR:
		if c.Enrichment.Enabled() {
			if err := c.Enrichment.validate(); err != nil {
				return err
			}
		} else if c.EnrichmentService.URL == "" {
			return fmt.Errorf("either ENRICHMENT_API_URL or ENRICHMENT_SERVICE_URL is required for %s", c.Service)
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

func (c *Config) needsDatabase() bool {
	return c.Service == ServiceAuth || c.Service == ServiceHR
}

func (c *Config) needsSigningKey() bool {
	return c.Service == ServiceAuth || c.Service == ServiceHR
}

func (c *DatabaseConfig) validate() error {
	if c.ConnectionString != "" {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	if c.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

func (c EnrichmentConfig) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("ENRICHMENT_API_URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("ENRICHMENT_MODEL is required")
	}
	if c.ResponseShape != "completions" && c.ResponseShape != "chat" {
		return fmt.Errorf("ENRICHMENT_RESPONSE_SHAPE must be completions or chat, got %q", c.ResponseShape)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("ENRICHMENT_MAX_RETRIES cannot be negative")
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("ENRICHMENT_MAX_CONCURRENT must be positive")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, strings.TrimPrefix(u.Path, "/"))
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

func loadDatabaseConfig() DatabaseConfig {
	cfg := DatabaseConfig{
		ConnectionString: getEnv("DATABASE_URL", ""),
		MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
	if cfg.ConnectionString != "" {
		return cfg
	}
	cfg.Host = getEnv("DB_HOST", "localhost")
	cfg.Port = getEnvAsInt("DB_PORT", 5432)
	cfg.User = getEnv("DB_USER", "hr")
	cfg.Password = getEnv("DB_PASSWORD", "")
	cfg.Database = getEnv("DB_NAME", "hr_platform")
	cfg.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getPort reads PORT, then SERVER_PORT, then falls back to the service default
func getPort(defaultPort int) int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := os.Getenv(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return defaultPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
