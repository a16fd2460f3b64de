package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Brands       BrandsConfig
	Rankings     RankingsConfig
	Cache        CacheConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Discord      DiscordConfig
	Scheduler    SchedulerConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Brands.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BRANDPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"BRANDPULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRANDPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRANDPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BRANDPULSE_DB_DSN"`
	Driver string `envconfig:"BRANDPULSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BRANDPULSE_DB_HOST"`
	LegacyPort     int    `envconfig:"BRANDPULSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BRANDPULSE_DB_USER"`
	LegacyPassword string `envconfig:"BRANDPULSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BRANDPULSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BRANDPULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRANDPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRANDPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRANDPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRANDPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRANDPULSE_REDIS_URL"`
	Address      string        `envconfig:"BRANDPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"BRANDPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRANDPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRANDPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRANDPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRANDPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRANDPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRANDPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BRANDPULSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BRANDPULSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BRANDPULSE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// BrandsConfig injects the tenant brand set. The brand enumeration is
// configuration, never a compiled-in constant, so per-tenant deployments can
// differ without a code change.
type BrandsConfig struct {
	List []string `envconfig:"BRANDPULSE_BRANDS" required:"true"`
}

func (b BrandsConfig) validate() error {
	if len(b.List) == 0 {
		return fmt.Errorf("%s must list at least one brand", EnvBrands)
	}
	seen := map[string]bool{}
	for _, brand := range b.List {
		trimmed := strings.TrimSpace(brand)
		if trimmed == "" {
			return fmt.Errorf("%s contains an empty brand id", EnvBrands)
		}
		if seen[trimmed] {
			return fmt.Errorf("%s lists brand %q twice", EnvBrands, trimmed)
		}
		seen[trimmed] = true
	}
	return nil
}

// Normalized returns the configured brand ids trimmed, in configured order.
func (b BrandsConfig) Normalized() []string {
	out := make([]string, 0, len(b.List))
	for _, brand := range b.List {
		out = append(out, strings.TrimSpace(brand))
	}
	return out
}

type RankingsConfig struct {
	PerBrandLimit int `envconfig:"BRANDPULSE_RANKINGS_PER_BRAND_LIMIT" default:"50"`
	DefaultLimit  int `envconfig:"BRANDPULSE_RANKINGS_DEFAULT_LIMIT" default:"20"`
	MaxLimit      int `envconfig:"BRANDPULSE_RANKINGS_MAX_LIMIT" default:"100"`
}

type CacheConfig struct {
	Enabled bool          `envconfig:"BRANDPULSE_CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"BRANDPULSE_CACHE_TTL" default:"5m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BRANDPULSE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BRANDPULSE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BRANDPULSE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DigestTopic        string `envconfig:"BRANDPULSE_PUBSUB_DIGEST_TOPIC" default:"bp-digest-events"`
	DigestSubscription string `envconfig:"BRANDPULSE_PUBSUB_DIGEST_SUBSCRIPTION"`
}

type DiscordConfig struct {
	WebhookURL string `envconfig:"BRANDPULSE_DISCORD_WEBHOOK_URL"`
}

type SchedulerConfig struct {
	Enabled  bool          `envconfig:"BRANDPULSE_SCHEDULER_ENABLED" default:"false"`
	Interval time.Duration `envconfig:"BRANDPULSE_SCHEDULER_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"BRANDPULSE_SCHEDULER_LOCK_TTL" default:"23h"`
	Preset   string        `envconfig:"BRANDPULSE_SCHEDULER_DIGEST_PRESET" default:"yesterday"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BRANDPULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BRANDPULSE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
