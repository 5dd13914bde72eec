package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the settings service configuration
type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Database DatabaseConfig
	NATS     NATSConfig
}

// ServiceConfig identifies the running service
type ServiceConfig struct {
	Name        string `env:"SERVICE_NAME" envDefault:"be-plt-settings"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServerConfig holds HTTP and gRPC listener settings
type ServerConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8086"`
	GRPCPort        int           `env:"GRPC_PORT" envDefault:"9086"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig holds Postgres pool settings
type DatabaseConfig struct {
	Host        string        `env:"DB_HOST" envDefault:"localhost"`
	Port        int           `env:"DB_PORT" envDefault:"5432"`
	User        string        `env:"DB_USER" envDefault:"postgres"`
	Password    string        `env:"DB_PASSWORD"`
	Database    string        `env:"DB_NAME" envDefault:"settings"`
	SSLMode     string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns    int32         `env:"DB_MIN_CONNS" envDefault:"1"`
	MaxConnTime time.Duration `env:"DB_MAX_CONN_TIME" envDefault:"1h"`
	MaxIdleTime time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"30m"`
	HealthCheck time.Duration `env:"DB_HEALTH_CHECK" envDefault:"1m"`
}

// NATSConfig holds the notification bus settings. An empty URL disables
// event publishing.
type NATSConfig struct {
	URL           string `env:"NATS_URL"`
	SubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"notifications.settings"`
}

// ConsoleConfig is the configuration of the operator console
type ConsoleConfig struct {
	APIURL    string        `env:"SETTINGS_API_URL" envDefault:"http://localhost:8086"`
	ActorID   int64         `env:"SETTINGS_ACTOR_ID"`
	TenantID  int64         `env:"SETTINGS_TENANT_ID"`
	Timeout   time.Duration `env:"SETTINGS_API_TIMEOUT" envDefault:"30s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	NATSURL   string        `env:"NATS_URL"`
	NATSTopic string        `env:"NATS_SUBJECT_PREFIX" envDefault:"notifications.settings"`
}

// Load reads an optional .env file and then parses the service configuration
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConsole reads an optional .env file and then parses the console configuration
func LoadConsole() (*ConsoleConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &ConsoleConfig{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DSN builds the pgx connection string. Credentials and the database name
// are escaped, so reserved characters in a password stay in the password.
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// loadDotEnv loads .env when present; a missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
