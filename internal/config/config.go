package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"autoinsight/internal/errors"
)

// EnvPrefix is prepended to every environment override, with "." mapped to "_"
// (AUTOINSIGHT_PIPELINE_STAGE_TIMEOUT).
const EnvPrefix = "AUTOINSIGHT"

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing" yaml:"tracing"`
}

// AnalysisConfig tunes the statistical stages
type AnalysisConfig struct {
	// Seed fixes the simulated model output. Zero derives it from the dataset fingerprint.
	Seed                 int64   `mapstructure:"seed" yaml:"seed"`
	MaxCorrelationPairs  int     `mapstructure:"max_correlation_pairs" yaml:"max_correlation_pairs"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
}

// PipelineConfig bounds each stage attempt
type PipelineConfig struct {
	StageTimeout time.Duration `mapstructure:"stage_timeout" yaml:"stage_timeout"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
}

// DatabaseConfig holds report store settings. An empty URL disables persistence.
type DatabaseConfig struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Driver string `mapstructure:"driver" yaml:"driver"`
}

// Enabled reports whether a report store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// LogConfig selects level and output format
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TracingConfig configures OpenTelemetry export. An empty endpoint uses a no-op tracer.
type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
	SampleRate   float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	Insecure     bool    `mapstructure:"insecure" yaml:"insecure"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.seed", 0)
	v.SetDefault("analysis.max_correlation_pairs", 20)
	v.SetDefault("analysis.correlation_threshold", 0.3)

	v.SetDefault("pipeline.stage_timeout", 30*time.Second)
	v.SetDefault("pipeline.max_retries", 2)
	v.SetDefault("pipeline.retry_delay", 200*time.Millisecond)
	v.SetDefault("pipeline.max_delay", 2*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", "postgres")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.service_name", "autoinsight")
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.insecure", true)
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from file, env, and defaults.
// Precedence: env > config file > .env > defaults. path may be empty.
func Load(path string) (*Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("cannot read config file %s: %w", path, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("cannot decode configuration: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects out-of-range values
func (c *Config) Validate() error {
	var problems []string
	if c.Analysis.MaxCorrelationPairs <= 0 {
		problems = append(problems, "analysis.max_correlation_pairs must be positive")
	}
	if c.Analysis.CorrelationThreshold < 0 || c.Analysis.CorrelationThreshold > 1 {
		problems = append(problems, "analysis.correlation_threshold must be within [0, 1]")
	}
	if c.Pipeline.StageTimeout <= 0 {
		problems = append(problems, "pipeline.stage_timeout must be positive")
	}
	if c.Pipeline.MaxRetries < 0 {
		problems = append(problems, "pipeline.max_retries must not be negative")
	}
	if c.Pipeline.RetryDelay < 0 || c.Pipeline.MaxDelay < 0 {
		problems = append(problems, "pipeline retry delays must not be negative")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		problems = append(problems, "tracing.sample_rate must be within [0, 1]")
	}
	if c.Database.Enabled() && c.Database.Driver != "postgres" && c.Database.Driver != "sqlite3" {
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}
	if len(problems) > 0 {
		return errors.ConfigInvalid(strings.Join(problems, "; "))
	}
	return nil
}
