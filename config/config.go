package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/errs"
)

const (
	EmailBackendSMTP    = "smtp"
	EmailBackendResend  = "resend"
	EmailBackendConsole = "console"
	EmailBackendMemory  = "memory"

	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"

	DBTypePostgres = "postgres"
	DBTypeSupabase = "supa"
	DBTypeSQLite   = "sqlite"
)

// Config is read once at startup and passed to the components that need it
type Config struct {
	Port                string   `env:"PORT" envDefault:"8080"`
	ReadTimeoutSeconds  int      `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int      `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int      `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`
	AcceptedOrigins     []string `env:"ACCEPTED_ORIGINS" envSeparator:","`
	LogLevel            string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string   `env:"LOG_FORMAT" envDefault:"console"`
	SSMParameterPath    string   `env:"SSM_PARAMETER_PATH"`

	Database DatabaseConfig
	Auth     AuthConfig
	Email    EmailConfig
	Storage  StorageConfig
	Tasks    TaskConfig
}

type DatabaseConfig struct {
	Type             string   `env:"DB_TYPE" envDefault:"sqlite"`
	URL              string   `env:"DATABASE_URL"`
	SupabaseHost     string   `env:"SUPABASE_DB_HOST"`
	SupabaseUser     string   `env:"SUPABASE_DB_USER"`
	SupabasePassword string   `env:"SUPABASE_DB_PASSWORD"`
	SupabaseName     string   `env:"SUPABASE_DB_NAME"`
	SupabasePort     string   `env:"SUPABASE_DB_PORT" envDefault:"5432"`
	SQLitePath       string   `env:"SQLITE_PATH" envDefault:"portfolio.db"`
	ReplicaDSNs      []string `env:"DB_REPLICA_DSNS" envSeparator:","`
	MaxOpenConns     int      `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

type AuthConfig struct {
	LoginURL      string        `env:"LOGIN_URL" envDefault:"/admin/login/"`
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
}

type EmailConfig struct {
	Backend          string `env:"EMAIL_BACKEND" envDefault:"console"`
	AdminEmail       string `env:"ADMIN_EMAIL"`
	DefaultFromEmail string `env:"DEFAULT_FROM_EMAIL" envDefault:"webmaster@localhost"`
	Host             string `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	Port             int    `env:"EMAIL_PORT" envDefault:"587"`
	HostUser         string `env:"EMAIL_HOST_USER"`
	HostPassword     string `env:"EMAIL_HOST_PASSWORD"`
	ResendAPIKey     string `env:"RESEND_API_KEY"`
	ResendBaseURL    string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
}

type StorageConfig struct {
	Backend      string `env:"STORAGE_BACKEND" envDefault:"local"`
	MediaRoot    string `env:"MEDIA_ROOT" envDefault:"media"`
	MediaURL     string `env:"MEDIA_URL" envDefault:"/media/"`
	Bucket       string `env:"AWS_STORAGE_BUCKET_NAME"`
	Region       string `env:"AWS_S3_REGION_NAME" envDefault:"us-east-1"`
	CustomDomain string `env:"AWS_S3_CUSTOM_DOMAIN"`
}

// TaskConfig holds the one-shot maintenance toggles checked by main
type TaskConfig struct {
	SeedData             bool `env:"SEED_DATA"`
	CreateAdminUser      bool `env:"CREATE_ADMIN_USER"`
	GenerateModels       bool `env:"GENERATE_MODELS"`
	GenerateColumnReport bool `env:"GENERATE_COLUMN_REPORT"`
}

// Load reads .env, overlays parameters from SSM when SSM_PARAMETER_PATH is set,
// then parses the process environment into a Config.
func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	environ := New()
	if path := environ["SSM_PARAMETER_PATH"]; path != "" {
		params, err := LoadSSMParameters(ctx, path)
		if err != nil {
			return Config{}, errs.NewConfigError("SSM_PARAMETER_PATH", err)
		}
		environ = Overlay(environ, params)
		log.Info().Int("parameters", len(params)).Str("path", path).Msg("loaded parameters from SSM")
	}

	return FromMap(environ)
}

// FromMap parses a Config from the given variables instead of the process environment
func FromMap(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, errs.NewConfigError("environment", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Email.Backend {
	case EmailBackendSMTP, EmailBackendResend, EmailBackendConsole, EmailBackendMemory:
	default:
		return errs.NewInvalidConfigError("EMAIL_BACKEND", c.Email.Backend)
	}
	switch c.Storage.Backend {
	case StorageBackendLocal, StorageBackendS3:
	default:
		return errs.NewInvalidConfigError("STORAGE_BACKEND", c.Storage.Backend)
	}
	switch c.Database.Type {
	case DBTypePostgres, DBTypeSupabase, DBTypeSQLite:
	default:
		return errs.NewInvalidConfigError("DB_TYPE", c.Database.Type)
	}
	if c.Email.AdminEmail == "" {
		return errs.NewEnvironmentVariableError("ADMIN_EMAIL")
	}
	if c.Auth.JWTSecret == "" {
		return errs.NewEnvironmentVariableError("JWT_SECRET")
	}
	if c.Storage.Backend == StorageBackendS3 && c.Storage.Bucket == "" {
		return errs.NewEnvironmentVariableError("AWS_STORAGE_BUCKET_NAME")
	}
	if c.Email.Backend == EmailBackendResend && c.Email.ResendAPIKey == "" {
		return errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	return nil
}

// Address is the listen address; binding to 0.0.0.0 allows external access
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// DSN builds the connection string for the configured database type
func (c DatabaseConfig) DSN() (string, error) {
	switch c.Type {
	case DBTypeSupabase:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			c.SupabaseHost,
			c.SupabaseUser,
			c.SupabasePassword,
			c.SupabaseName,
			c.SupabasePort,
		), nil
	case DBTypePostgres:
		if c.URL == "" {
			return "", errs.NewEnvironmentVariableError("DATABASE_URL")
		}
		return c.URL, nil
	case DBTypeSQLite:
		return SQLiteDSN(c.SQLitePath), nil
	default:
		return "", errs.NewInvalidConfigError("DB_TYPE", c.Type)
	}
}

// SQLiteDSN turns a file path (or ":memory:") into a DSN with foreign keys enforced
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// New returns the process environment as a map
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// Overlay returns base with every key from extra that base does not already set
func Overlay(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range base {
		merged[k] = v
	}
	return merged
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
