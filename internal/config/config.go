package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/anstrom/sortbench/internal/bench"
	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/report"
	"github.com/anstrom/sortbench/internal/sorting"
)

// Config represents the complete sortbench configuration
type Config struct {
	// Benchmark configuration
	Benchmark BenchmarkConfig `yaml:"benchmark" json:"benchmark"`

	// Metrics export configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Results server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BenchmarkConfig holds benchmark run settings
type BenchmarkConfig struct {
	// Input sizes, benchmarked in order
	Sizes []int `yaml:"sizes" json:"sizes" validate:"required,min=1,dive,gte=0"`

	// Seed for Random and NearlySorted inputs
	Seed int64 `yaml:"seed" json:"seed"`

	// CSV output file; empty disables the file
	OutputFile string `yaml:"output_file" json:"output_file"`

	// Console format (text, table, csv)
	Format string `yaml:"format" json:"format" validate:"required"`

	// Variants to run; empty means all
	Variants []string `yaml:"variants" json:"variants"`

	// Distributions to run; empty means all
	Distributions []string `yaml:"distributions" json:"distributions"`

	// Run every variant against every distribution
	Matrix bool `yaml:"matrix" json:"matrix"`

	// Largest input the optimized variant hands to the basic sort
	GuardThreshold int `yaml:"guard_threshold" json:"guard_threshold" validate:"gte=1"`
}

// MetricsConfig holds metrics export settings
type MetricsConfig struct {
	// Prometheus text exposition file written after each run
	TextfilePath string `yaml:"textfile_path" json:"textfile_path"`

	// Print the metrics store after each run
	DumpStore bool `yaml:"dump_store" json:"dump_store"`
}

// ServerConfig holds results server settings
type ServerConfig struct {
	// Listen address
	Host string `yaml:"host" json:"host" validate:"required"`

	// Listen port
	Port int `yaml:"port" json:"port" validate:"min=1,max=65535"`

	// Cron expression for repeated runs; empty runs once
	Schedule string `yaml:"schedule" json:"schedule"`

	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Benchmark: BenchmarkConfig{
			Sizes:          append([]int(nil), bench.DefaultSizes...),
			Seed:           bench.DefaultSeed,
			OutputFile:     bench.DefaultOutputFile,
			Format:         string(report.FormatText),
			GuardThreshold: sorting.DefaultGuardThreshold,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9090,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // Return defaults if no config file
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to read config file", err)
	}

	// yaml.v3 also parses JSON documents.
	switch filepath.Ext(path) {
	case ".json":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse JSON config", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse YAML config", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.NewConfigFieldError(errors.CodeValidation,
				fmt.Sprintf("failed %q check", fe.Tag()), fe.Namespace(), fe.Value())
		}
		return errors.WrapConfigError(errors.CodeValidation, "invalid configuration", err)
	}

	if _, err := report.ParseFormat(c.Benchmark.Format); err != nil {
		return errors.ErrConfigInvalid("benchmark.format", c.Benchmark.Format)
	}
	for _, v := range c.Benchmark.Variants {
		if _, err := sorting.ParseVariant(v); err != nil {
			return errors.ErrConfigInvalid("benchmark.variants", v)
		}
	}
	for _, d := range c.Benchmark.Distributions {
		if _, err := bench.ParseDistribution(d); err != nil {
			return errors.ErrConfigInvalid("benchmark.distributions", d)
		}
	}

	if c.Server.Schedule != "" {
		if _, err := cron.ParseStandard(c.Server.Schedule); err != nil {
			return errors.ErrConfigInvalid("server.schedule", c.Server.Schedule)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.ErrConfigInvalid("logging.level", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.ErrConfigInvalid("logging.format", c.Logging.Format)
	}

	return nil
}

// BenchConfig converts the benchmark section into runner settings. The
// configuration must already be valid.
func (c *Config) BenchConfig() (bench.Config, error) {
	cfg := bench.Config{
		Sizes:          append([]int(nil), c.Benchmark.Sizes...),
		Seed:           c.Benchmark.Seed,
		Matrix:         c.Benchmark.Matrix,
		GuardThreshold: c.Benchmark.GuardThreshold,
		OutputFile:     c.Benchmark.OutputFile,
	}
	for _, name := range c.Benchmark.Variants {
		v, err := sorting.ParseVariant(name)
		if err != nil {
			return bench.Config{}, err
		}
		cfg.Variants = append(cfg.Variants, v)
	}
	for _, name := range c.Benchmark.Distributions {
		d, err := bench.ParseDistribution(name)
		if err != nil {
			return bench.Config{}, err
		}
		cfg.Distributions = append(cfg.Distributions, d)
	}
	return cfg, nil
}

// ConsoleFormat returns the parsed console format.
func (c *Config) ConsoleFormat() report.Format {
	f, err := report.ParseFormat(c.Benchmark.Format)
	if err != nil {
		return report.FormatText
	}
	return f
}

// LoggerConfig returns the logging package configuration.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(c.Logging.Level),
		Format: logging.LogFormat(c.Logging.Format),
		Output: c.Logging.Output,
	}
}

// GetServerAddress returns the full listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
