package config

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"autorepro/internal/errors"
	"autorepro/internal/plan"
	"autorepro/internal/render"
)

// FileName is the per-repository configuration file, looked up at the
// repository root
const FileName = ".autorepro.toml"

// Config represents the complete autorepro configuration (v1 schema)
type Config struct {
	Version int           `toml:"version" mapstructure:"version"`
	Plan    PlanConfig    `toml:"plan" mapstructure:"plan"`
	Exec    ExecConfig    `toml:"exec" mapstructure:"exec"`
	Output  OutputConfig  `toml:"output" mapstructure:"output"`
	Logging LoggingConfig `toml:"logging" mapstructure:"logging"`
}

// PlanConfig contains ranking configuration
type PlanConfig struct {
	MinScore    int  `toml:"min_score" mapstructure:"min_score"`
	MaxCommands int  `toml:"max_commands" mapstructure:"max_commands"`
	Strict      bool `toml:"strict" mapstructure:"strict"`
}

// ExecConfig contains execution runtime configuration
type ExecConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
	LogPath        string `toml:"log_path" mapstructure:"log_path"`
}

// OutputConfig contains rendering configuration
type OutputConfig struct {
	Format string `toml:"format" mapstructure:"format"`
}

// LoggingConfig contains diagnostic logging configuration
type LoggingConfig struct {
	Format string `toml:"format" mapstructure:"format"`
	Level  string `toml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Plan: PlanConfig{
			MinScore:    plan.DefaultMinScore,
			MaxCommands: plan.DefaultMaxCommands,
		},
		Exec: ExecConfig{
			TimeoutSeconds: 0,
		},
		Output: OutputConfig{
			Format: string(render.FormatMarkdown),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from repoRoot's config file. A missing file
// yields the defaults. AUTOREPRO_* environment variables override file
// values (AUTOREPRO_PLAN_MIN_SCORE, AUTOREPRO_OUTPUT_FORMAT, ...).
func Load(repoRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("plan.min_score", defaults.Plan.MinScore)
	v.SetDefault("plan.max_commands", defaults.Plan.MaxCommands)
	v.SetDefault("plan.strict", defaults.Plan.Strict)
	v.SetDefault("exec.timeout_seconds", defaults.Exec.TimeoutSeconds)
	v.SetDefault("exec.log_path", defaults.Exec.LogPath)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName(".autorepro")
	v.SetConfigType("toml")
	v.AddConfigPath(repoRoot)

	v.SetEnvPrefix("AUTOREPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewIOFailure(filepath.Join(repoRoot, FileName), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewReproError(errors.InternalError, "cannot decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to repoRoot's config file
func (c *Config) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, FileName)

	data, err := toml.Marshal(c)
	if err != nil {
		return errors.NewReproError(errors.InternalError, "cannot encode config", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIOFailure(path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return errors.NewMisuse("unsupported config version %d", c.Version)
	}
	if c.Plan.MinScore < 0 {
		return errors.NewMisuse("plan.min_score must be non-negative, got %d", c.Plan.MinScore)
	}
	if c.Plan.MaxCommands < 1 {
		return errors.NewMisuse("plan.max_commands must be at least 1, got %d", c.Plan.MaxCommands)
	}
	if c.Exec.TimeoutSeconds < 0 {
		return errors.NewMisuse("exec.timeout_seconds must be non-negative, got %d", c.Exec.TimeoutSeconds)
	}
	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}
