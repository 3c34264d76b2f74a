package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DevJWTSecret signs tokens when AUTH_JWT_SECRET is unset in local and test runs.
// Any other environment refuses to start without a real secret.
const DevJWTSecret = "odonto-agenda-dev-secret"

type Config struct {
	AppName      string `env:"AUTH_APP_NAME" envDefault:"odonto-agenda-api"`
	AppEnv       string `env:"AUTH_APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"AUTH_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"AUTH_HTTP_PORT" envDefault:"3000"`
	HTTPBasePath string `env:"AUTH_HTTP_BASE_PATH" envDefault:""`

	DBHost     string `env:"AUTH_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"AUTH_DB_PORT" envDefault:"5432"`
	DBUser     string `env:"AUTH_DB_USER" envDefault:"postgres"`
	DBPassword string `env:"AUTH_DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"AUTH_DB_NAME" envDefault:"postgres"`
	DBSSLMode  string `env:"AUTH_DB_SSLMODE" envDefault:"disable"`

	JWTSecret  string        `env:"AUTH_JWT_SECRET"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`

	SupabaseURL        string        `env:"SUPABASE_URL"`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseAnonKey    string        `env:"SUPABASE_ANON_KEY"`
	SupabaseTimeout    time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"10s"`

	NATSURL                string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject      string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`
	NATSUserCreatedSubject string `env:"NATS_SUBJECT_USER_CREATED" envDefault:"usuario.cadastrado"`

	DefaultRole string `env:"AUTH_DEFAULT_ROLE" envDefault:"paciente"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Development reports whether insecure defaults are acceptable.
func (c *Config) Development() bool {
	return c.AppEnv == "local" || c.AppEnv == "test"
}

// SigningSecret returns the token secret, using DevJWTSecret only in development.
func (c *Config) SigningSecret() (string, error) {
	if c.JWTSecret != "" {
		return c.JWTSecret, nil
	}
	if c.Development() {
		return DevJWTSecret, nil
	}
	return "", errors.New("AUTH_JWT_SECRET is required outside local/test environments")
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SigningSecret(); err != nil {
		errs = append(errs, err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if !c.Development() {
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required"))
		}
		if c.SupabaseServiceKey == "" {
			errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY is required"))
		}
	}
	return errors.Join(errs...)
}
