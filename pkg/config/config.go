package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Sendgrid SendgridConfig
	GCP      GCPConfig
	GCS      GCSConfig
	Features FeaturesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MVE_APP_ENV" required:"true"`
	Port         string `envconfig:"MVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MVE_DB_DSN"`
	Driver string `envconfig:"MVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MVE_DB_HOST"`
	LegacyPort     int    `envconfig:"MVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MVE_DB_USER"`
	LegacyPassword string `envconfig:"MVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"MVE_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MVE_REDIS_ADDR"`
	Password     string        `envconfig:"MVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MVE_REDIS_WRITE_TIMEOUT" default:"5s"`

	WebhookIdempotencyTTL time.Duration `envconfig:"MVE_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}

// JWTConfig covers verification of access tokens minted by the external
// identity service. This API never mints tokens outside of tests.
type JWTConfig struct {
	Secret string `envconfig:"MVE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"MVE_JWT_ISSUER" required:"true"`
}

type StripeConfig struct {
	APIKey string `envconfig:"MVE_STRIPE_API_KEY"`
	Secret string `envconfig:"MVE_STRIPE_WEBHOOK_SECRET"`
	Env    string `envconfig:"MVE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	SuccessURL string `envconfig:"MVE_CHECKOUT_SUCCESS_URL"`
	CancelURL  string `envconfig:"MVE_CHECKOUT_CANCEL_URL"`
	Currency   string `envconfig:"MVE_CHECKOUT_CURRENCY" default:"usd"`
}

func (c CheckoutConfig) validate() error {
	if c.SuccessURL != "" {
		if _, err := url.ParseRequestURI(c.SuccessURL); err != nil {
			return fmt.Errorf("invalid checkout success url: %w", err)
		}
	}
	if c.CancelURL != "" {
		if _, err := url.ParseRequestURI(c.CancelURL); err != nil {
			return fmt.Errorf("invalid checkout cancel url: %w", err)
		}
	}
	return nil
}

type SendgridConfig struct {
	APIKey      string `envconfig:"MVE_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"MVE_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"MVE_SENDGRID_FROM_NAME" default:"Marketplace"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MVE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MVE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MVE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"MVE_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"MVE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"MVE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type FeaturesConfig struct {
	SendEmails bool `envconfig:"MVE_FEATURE_SEND_EMAILS" default:"true"`
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
