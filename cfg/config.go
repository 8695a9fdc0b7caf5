package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type HTTPConfig struct {
	Port string `envconfig:"HTTP_PORT" default:"8080"`
	// PublicURL is the externally visible base URL of the portal.
	PublicURL    string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	SecureCookie bool   `envconfig:"SECURE_COOKIE" default:"false"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

type PostgresConfig struct {
	Host          string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port          string `envconfig:"POSTGRES_PORT" default:"5432"`
	User          string `envconfig:"POSTGRES_USER" default:"portal"`
	Password      string `envconfig:"POSTGRES_PASSWORD"`
	DBName        string `envconfig:"POSTGRES_DB" default:"portal"`
	SSLMode       string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"db/migrations"`
}

type BackendConfig struct {
	BaseURL     string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	TokenSecret string        `envconfig:"BACKEND_TOKEN_SECRET" required:"true"`
	TokenIssuer string        `envconfig:"BACKEND_TOKEN_ISSUER" default:"travel-portal"`
	TokenTTL    time.Duration `envconfig:"BACKEND_TOKEN_TTL" default:"5m"`
}

type OAuth2Config struct {
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`

	FacebookClientID     string `envconfig:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `envconfig:"FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURL  string `envconfig:"FACEBOOK_REDIRECT_URL"`

	// Any other OIDC issuer, registered under OIDCAlias.
	OIDCAlias        string `envconfig:"OIDC_ALIAS"`
	OIDCIssuer       string `envconfig:"OIDC_ISSUER"`
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `envconfig:"OIDC_REDIRECT_URL"`

	Realm            string `envconfig:"AUTH_REALM" default:"travel"`
	LoginURL         string `envconfig:"AUTH_LOGIN_URL" default:"/login"`
	RegisterURL      string `envconfig:"AUTH_REGISTER_URL" default:"/register"`
	ResetPasswordURL string `envconfig:"AUTH_RESET_PASSWORD_URL" default:"/reset-password"`
	AfterLoginURL    string `envconfig:"AUTH_AFTER_LOGIN_URL"`
}

type CaptchaConfig struct {
	// Empty disables the widget.
	SiteKey string `envconfig:"CAPTCHA_SITE_KEY"`
}

type BookingConfig struct {
	StateTTL time.Duration `envconfig:"BOOKING_STATE_TTL" default:"24h"`
}

type SessionConfig struct {
	Store   string        `envconfig:"SESSION_STORE" default:"memory"`
	TTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	IdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
}

type ObservabilityConfig struct {
	// Empty disables telemetry.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"travel-portal"`
	Environment  string `envconfig:"OTEL_ENVIRONMENT" default:"development"`
}

type CacheConfig struct {
	Driver    string        `envconfig:"CACHE_DRIVER" default:"redis"`
	FlightTTL time.Duration `envconfig:"FLIGHT_CACHE_TTL" default:"5m"`
}

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	NodeID        int64  `envconfig:"NODE_ID" default:"1"`
	HTTP          HTTPConfig
	Redis         RedisConfig
	Postgres      PostgresConfig
	Backend       BackendConfig
	OAuth2        OAuth2Config
	Captcha       CaptchaConfig
	Booking       BookingConfig
	Session       SessionConfig
	Observability ObservabilityConfig
	Cache         CacheConfig
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed load cfg: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Session.Store {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("invalid env SESSION_STORE: %q", c.Session.Store))
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("invalid env CACHE_DRIVER: %q", c.Cache.Driver))
	}
	if c.Backend.TokenTTL <= 0 {
		errs = append(errs, errors.New("invalid env BACKEND_TOKEN_TTL: must be positive"))
	}
	return errors.Join(errs...)
}
