package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "UNDERWRITER"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PipelineConfig controls dataset loading and summarization
type PipelineConfig struct {
	CSVDateMode         string `yaml:"csv_date_mode" envconfig:"CSV_DATE_MODE" validate:"oneof=strict loose"`
	SpreadsheetDateMode string `yaml:"spreadsheet_date_mode" envconfig:"SPREADSHEET_DATE_MODE" validate:"oneof=strict loose"`
	DateLayout          string `yaml:"date_layout" envconfig:"DATE_LAYOUT" validate:"required"`
	SheetName           string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	MaxUploadBytes      int64  `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	BatchConcurrency    int    `yaml:"batch_concurrency" envconfig:"BATCH_CONCURRENCY" validate:"min=1,max=64"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceStdout    bool   `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// OutputPath resolves name inside OutputDir. Absolute names are returned
// unchanged.
func (p PathsConfig) OutputPath(name string) string {
	if filepath.IsAbs(name) || p.OutputDir == "" {
		return name
	}
	return filepath.Join(p.OutputDir, name)
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing precedence. A .env file in the working directory
// is read into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML path. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays keys present in the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate normalizes and validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = "json"
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %q fails %q", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}
	if c.Logging.Output != "console" && c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the first config file found, honoring an
// explicit UNDERWRITER_CONFIG_FILE.
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			CSVDateMode:         "strict",
			SpreadsheetDateMode: "loose",
			DateLayout:          "2/1/2006",
			MaxUploadBytes:      32 << 20, // 32MB
			BatchConcurrency:    4,
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			ServiceName:    "credit-underwriter",
			ServiceVersion: "dev",
			Environment:    "development",
		},
		Paths: PathsConfig{
			OutputDir: "output",
			LogsDir:   "logs",
		},
	}
}
