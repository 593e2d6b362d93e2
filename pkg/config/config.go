package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "numerik"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Dashboard    DashboardConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NUMERIK_APP_ENV" required:"true"`
	Port         string `envconfig:"NUMERIK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NUMERIK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NUMERIK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NUMERIK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"NUMERIK_DB_DSN"`
	Driver string `envconfig:"NUMERIK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NUMERIK_DB_HOST"`
	LegacyPort     int    `envconfig:"NUMERIK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NUMERIK_DB_USER"`
	LegacyPassword string `envconfig:"NUMERIK_DB_PASSWORD"`
	LegacyName     string `envconfig:"NUMERIK_DB_NAME"`
	LegacySSLMode  string `envconfig:"NUMERIK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NUMERIK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NUMERIK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NUMERIK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NUMERIK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"NUMERIK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NUMERIK_REDIS_ADDR"`
	Password     string        `envconfig:"NUMERIK_REDIS_PASSWORD"`
	DB           int           `envconfig:"NUMERIK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NUMERIK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NUMERIK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NUMERIK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NUMERIK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NUMERIK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NUMERIK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NUMERIK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"NUMERIK_JWT_EXPIRATION_MINUTES" default:"480"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NUMERIK_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"NUMERIK_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"NUMERIK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"NUMERIK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"NUMERIK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic           string `envconfig:"NUMERIK_PUBSUB_ORDERS_TOPIC" default:"order-events"`
	DashboardSubscription string `envconfig:"NUMERIK_PUBSUB_DASHBOARD_SUBSCRIPTION" default:"order-events.dashboard"`
}

type DashboardConfig struct {
	RefreshInterval time.Duration `envconfig:"NUMERIK_DASHBOARD_REFRESH_INTERVAL" default:"1m"`
}

type OutboxConfig struct {
	PollInterval  time.Duration `envconfig:"NUMERIK_OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize     int           `envconfig:"NUMERIK_OUTBOX_BATCH_SIZE" default:"50"`
	MaxAttempts   int           `envconfig:"NUMERIK_OUTBOX_MAX_ATTEMPTS" default:"10"`
	Retention     time.Duration `envconfig:"NUMERIK_OUTBOX_RETENTION" default:"720h"`
	SweepInterval time.Duration `envconfig:"NUMERIK_OUTBOX_SWEEP_INTERVAL" default:"1h"`
	SweepLockTTL  time.Duration `envconfig:"NUMERIK_OUTBOX_SWEEP_LOCK_TTL" default:"5m"`
}
