package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// ErrDatabaseNotConfigured is returned by DatabaseConfig.DSN when DATABASE_URL is unset.
var ErrDatabaseNotConfigured = errors.New("database connection not configured")

type Config struct {
	Server      ServerConfig   `env:", prefix=SERVER_"`
	Database    DatabaseConfig `env:", prefix=DATABASE_"`
	Logging     LoggingConfig  `env:", prefix=LOG_"`
	Tracing     TracingConfig  `env:", prefix=TRACING_"`
	Environment string         `env:"ENVIRONMENT, default=development"`
}

type ServerConfig struct {
	Host string `env:"HOST, default=0.0.0.0"`
	Port int    `env:"PORT, default=8080" validate:"min=1,max=65535"`
}

type DatabaseConfig struct {
	URL            string        `env:"URL"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT, default=5s" validate:"gte=0"`
}

// DSN returns the connection string or ErrDatabaseNotConfigured.
func (c DatabaseConfig) DSN() (string, error) {
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return "", ErrDatabaseNotConfigured
	}
	return url, nil
}

type LoggingConfig struct {
	Level  string `env:"LEVEL, default=info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `env:"FORMAT, default=json" validate:"oneof=json console"`
}

type TracingConfig struct {
	Enabled      bool    `env:"ENABLED, default=false"`
	Exporter     string  `env:"EXPORTER, default=stdout" validate:"oneof=stdout otlp none"`
	ServiceName  string  `env:"SERVICE_NAME, default=citymap"`
	OTLPEndpoint string  `env:"OTLP_ENDPOINT, default=localhost:4317"`
	SampleRate   float64 `env:"SAMPLE_RATE, default=1.0" validate:"gte=0,lte=1"`
}

// Load reads configuration from the process environment.
// A missing DATABASE_URL is not an error here; the handler reports it per request.
func Load(ctx context.Context) (Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
