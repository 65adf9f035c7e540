package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and not modified afterwards
type Config struct {
	Provider string `yaml:"provider" env:"INPUT_PROVIDER"`
	APIURL   string `yaml:"api_url" env:"GITHUB_API_URL"`
	Token    string `yaml:"github_token" env:"INPUT_GITHUB_TOKEN"`

	Org            string        `yaml:"org" env:"INPUT_ORG"`
	Team           string        `yaml:"team" env:"INPUT_TEAM"`
	Username       string        `yaml:"username" env:"INPUT_USERNAME"`
	Whitelist      string        `yaml:"whitelist" env:"INPUT_WHITELIST"`
	MultiUser      bool          `yaml:"multi_user" env:"INPUT_MULTI_USER"`
	MultiDelimiter string        `yaml:"multi_delimiter" env:"INPUT_MULTI_DELIMITER"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"INPUT_REQUEST_TIMEOUT"`

	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig controls log output
type LogConfig struct {
	Format string `yaml:"format" env:"INPUT_LOG_FORMAT"` // "console" | "json" (default: "console")
	File   string `yaml:"file" env:"INPUT_LOG_FILE"`
	Debug  bool   `yaml:"debug" env:"RUNNER_DEBUG"` // Set by the runner when debug logging is enabled
}

// TelemetryConfig controls tracing export
type TelemetryConfig struct {
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // Empty disables export
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

const (
	ProviderGitHub = "github"
	ProviderGitea  = "gitea"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default configuration values
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGitHub,
		APIURL:         "https://api.github.com",
		MultiDelimiter: ",",
		RequestTimeout: 30 * time.Second,
		Log: LogConfig{
			Format: LogFormatConsole,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "team-auth",
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and the action inputs in the environment, in that order of
// precedence. The result is validated.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment in KEY=VALUE form
func LoadWithEnv(path string, environ []string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, cfg, environ); err != nil {
			return nil, err
		}
	}

	opts := env.Options{
		Environment: inputEnvironment(environ),
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(false): parseInputBool,
		},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse action inputs: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config, environ []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the format ${VAR}
	data = expandEnvVars(data, env.ToMap(environ))

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// inputEnvironment converts the environment to a map, dropping empty
// values so that an unset action input keeps the default or file value
func inputEnvironment(environ []string) map[string]string {
	m := env.ToMap(environ)
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// parseInputBool treats only a literal "true" (or "1", as the runner sets
// RUNNER_DEBUG) as true, anything else as false
func parseInputBool(v string) (interface{}, error) {
	v = strings.TrimSpace(v)
	return strings.EqualFold(v, "true") || v == "1", nil
}

// expandEnvVars replaces ${VAR} patterns with environment variable values
func expandEnvVars(data []byte, vars map[string]string) []byte {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := string(re.FindSubmatch(match)[1])
		return []byte(vars[varName])
	})
}

// Validate checks the configuration, reporting every problem at once
func (c *Config) Validate() error {
	var errs *multierror.Error

	if strings.TrimSpace(c.Username) == "" {
		errs = multierror.Append(errs, errors.New("missing username"))
	}

	if c.Team != "" {
		if c.Org == "" {
			errs = multierror.Append(errs, errors.New("missing org (required when team is set)"))
		}
		if c.Token == "" {
			errs = multierror.Append(errs, errors.New("missing github_token (required when team is set)"))
		}
	}

	if c.MultiUser && c.MultiDelimiter == "" {
		errs = multierror.Append(errs, errors.New("missing multi_delimiter (required when multi_user is true)"))
	}

	switch c.Provider {
	case ProviderGitHub, ProviderGitea:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported provider: %s", c.Provider))
	}

	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported log format: %s", c.Log.Format))
	}

	if c.RequestTimeout < 0 {
		errs = multierror.Append(errs, errors.New("request_timeout must not be negative"))
	}

	return errs.ErrorOrNil()
}

// TeamCheckEnabled reports whether team membership should be queried
func (c *Config) TeamCheckEnabled() bool {
	return c.Team != ""
}
