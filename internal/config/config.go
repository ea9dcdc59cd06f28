package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/scalegate/internal/models"
	"github.com/miradorstack/scalegate/internal/timescale"
)

// Config captures the settings required to boot the scale validation service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
}

// ServerConfig controls the gRPC and HTTP listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	HTTPAddress     string        `yaml:"httpAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// EvaluationConfig declares the desired time scale and the sources of an
// evaluation. It drives offline checks.
type EvaluationConfig struct {
	TimeScale *TimeScaleConfig `yaml:"timeScale"`
	Sources   []SourceConfig   `yaml:"sources"`
}

// SourceConfig declares one source. TimeScale is what the user declared;
// ExistingTimeScale and TimeStep describe the data as retrieved.
type SourceConfig struct {
	Label             string           `yaml:"label"`
	TimeScale         *TimeScaleConfig `yaml:"timeScale"`
	ExistingTimeScale *TimeScaleConfig `yaml:"existingTimeScale"`
	TimeStep          time.Duration    `yaml:"timeStep"`
}

// TimeScaleConfig is the YAML form of a time scale, e.g. {period: 6h, function: mean}.
type TimeScaleConfig struct {
	Period   time.Duration `yaml:"period"`
	Function string        `yaml:"function"`
}

// ToTimeScale converts the YAML form into a validated time scale.
func (c TimeScaleConfig) ToTimeScale() (timescale.TimeScale, error) {
	fn, err := timescale.ParseFunction(c.Function)
	if err != nil {
		return timescale.TimeScale{}, err
	}
	return timescale.NewWithFunction(c.Period, fn)
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SCALEGATE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			HTTPAddress:     ":8080",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCALEGATE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SCALEGATE_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v := os.Getenv("SCALEGATE_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("SCALEGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCALEGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
}

// ValidationRequest builds a request from the evaluation block. Every source
// needs a label, an existing time scale and a time-step.
func (c EvaluationConfig) ValidationRequest() (models.ValidationRequest, error) {
	var req models.ValidationRequest
	if c.TimeScale != nil {
		desired, err := c.TimeScale.ToTimeScale()
		if err != nil {
			return req, fmt.Errorf("evaluation.timeScale: %w", err)
		}
		req.Desired = &desired
	}
	if len(c.Sources) == 0 {
		return req, fmt.Errorf("evaluation.sources: at least one source is required")
	}

	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.Label == "" {
			return req, fmt.Errorf("evaluation.sources[%d].label is required", i)
		}
		if _, dup := seen[src.Label]; dup {
			return req, fmt.Errorf("evaluation.sources[%d]: duplicate label %q", i, src.Label)
		}
		seen[src.Label] = struct{}{}

		if src.ExistingTimeScale == nil {
			return req, fmt.Errorf("evaluation.sources[%d].existingTimeScale is required", i)
		}
		existing, err := src.ExistingTimeScale.ToTimeScale()
		if err != nil {
			return req, fmt.Errorf("evaluation.sources[%d].existingTimeScale: %w", i, err)
		}

		source := models.Source{Label: src.Label, Existing: existing, TimeStep: src.TimeStep}
		if src.TimeScale != nil {
			declared, err := src.TimeScale.ToTimeScale()
			if err != nil {
				return req, fmt.Errorf("evaluation.sources[%d].timeScale: %w", i, err)
			}
			source.Declared = &declared
		}
		req.Sources = append(req.Sources, source)
	}
	return req, nil
}
