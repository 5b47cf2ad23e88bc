package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type AppOptions struct {
	Env          string        `env:"APP_ENV" envDefault:"development"`
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseOptions struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"ippis_portal"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Retries  int    `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisOptions struct {
	Addr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Retries int    `env:"REDIS_CONNECT_RETRIES" envDefault:"5"`
}

type KafkaOptions struct {
	Broker        string        `env:"KAFKA_BROKER"`
	ActivityGroup string        `env:"KAFKA_ACTIVITY_GROUP" envDefault:"ippis-portal-activity"`
	PollInterval  time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	BatchSize     int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
	Retention     time.Duration `env:"OUTBOX_RETENTION" envDefault:"168h"`
}

type AuthOptions struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

type BackendOptions struct {
	BaseURL string        `env:"BACKEND_BASE_URL"`
	APIKey  string        `env:"BACKEND_API_KEY"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

type VerificationOptions struct {
	URL      string        `env:"NIN_VERIFY_URL"`
	APIKey   string        `env:"NIN_VERIFY_API_KEY"`
	CacheTTL time.Duration `env:"NIN_CACHE_TTL" envDefault:"24h"`
	Timeout  time.Duration `env:"NIN_VERIFY_TIMEOUT" envDefault:"10s"`
}

type UploadOptions struct {
	MaxSize      int64    `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	AllowedMIMEs []string `env:"UPLOAD_ALLOWED_MIMES" envSeparator:"," envDefault:"application/pdf,image/png,image/jpeg,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"`
}

type MetricsOptions struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type Config struct {
	App          AppOptions
	Database     DatabaseOptions
	Redis        RedisOptions
	Kafka        KafkaOptions
	Auth         AuthOptions
	Backend      BackendOptions
	Verification VerificationOptions
	Upload       UploadOptions
	Metrics      MetricsOptions

	ProxyResourcesFile string `env:"PROXY_RESOURCES_FILE" envDefault:"config/proxy_resources.yaml"`
	RBACModelPath      string `env:"RBAC_MODEL_PATH" envDefault:"internal/rbac/infra/model.conf"`
}

// LoadEnv loads the dotenv files that exist and returns how many were loaded.
func LoadEnv(envFiles ...string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load() (*Config, error) {
	if _, err := LoadEnv(".env", ".env.local"); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == Production
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required"))
	}
	if c.Upload.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.Upload.MaxSize))
	}
	if c.Kafka.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.Kafka.BatchSize))
	}
	return errors.Join(errs...)
}
