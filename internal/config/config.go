package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Failure modes decide how the HTTP layer maps lookup failures to status codes.
const (
	// FailureModeSoft always answers 200 and carries the error flag in the body.
	FailureModeSoft = "soft"
	// FailureModeStrict answers failures with a 4xx/5xx status and the same body.
	FailureModeStrict = "strict"
)

// DefaultAllowedOrigins are the dashboard origins accepted out of the box.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
	"https://credentialguard.vercel.app",
}

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	NPPES   NPPESConfig   `yaml:"nppes" mapstructure:"nppes"`
	CORS    CORSConfig    `yaml:"cors" mapstructure:"cors"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP façade.
type ServerConfig struct {
	Port                int    `yaml:"port" mapstructure:"port"`
	FailureMode         string `yaml:"failure_mode" mapstructure:"failure_mode"`
	ReadTimeoutSecs     int    `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs    int    `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// ReadTimeout returns the server read timeout.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the server write timeout.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSecs) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// NPPESConfig configures the upstream registry client.
type NPPESConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Version     string `yaml:"version" mapstructure:"version"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the whole-request registry timeout.
func (n NPPESConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSecs) * time.Second
}

// CORSConfig holds the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	// FrontendURL is the deployed dashboard origin, usually set via FRONTEND_URL.
	FrontendURL string `yaml:"frontend_url" mapstructure:"frontend_url"`
}

// Origins returns AllowedOrigins plus FrontendURL, skipping blanks and duplicates.
func (c CORSConfig) Origins() []string {
	seen := make(map[string]bool, len(c.AllowedOrigins)+1)
	out := make([]string, 0, len(c.AllowedOrigins)+1)
	for _, o := range append(append([]string{}, c.AllowedOrigins...), c.FrontendURL) {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CREDENTIALGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bare variables understood by the hosting platform.
	if err := v.BindEnv("server.port", "CREDENTIALGUARD_SERVER_PORT", "PORT"); err != nil {
		return nil, eris.Wrap(err, "config: bind port env")
	}
	if err := v.BindEnv("cors.frontend_url", "CREDENTIALGUARD_CORS_FRONTEND_URL", "FRONTEND_URL"); err != nil {
		return nil, eris.Wrap(err, "config: bind frontend url env")
	}

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.failure_mode", FailureModeSoft)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 30)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("nppes.base_url", "https://npiregistry.cms.hhs.gov/api/")
	v.SetDefault("nppes.version", "2.1")
	v.SetDefault("nppes.timeout_secs", 10)
	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings needed by the given command mode
// ("serve" or "lookup").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.FailureMode != FailureModeSoft && c.Server.FailureMode != FailureModeStrict {
			errs = append(errs, fmt.Sprintf("server.failure_mode must be %q or %q", FailureModeSoft, FailureModeStrict))
		}
		if c.Server.ReadTimeoutSecs <= 0 || c.Server.WriteTimeoutSecs <= 0 {
			errs = append(errs, "server timeouts must be > 0")
		}
		if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
			errs = append(errs, "metrics.path must start with /")
		}
	case "lookup":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.NPPES.BaseURL == "" {
		errs = append(errs, "nppes.base_url is required")
	}
	if c.NPPES.TimeoutSecs <= 0 {
		errs = append(errs, "nppes.timeout_secs must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
