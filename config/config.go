package config

import (
	"fmt"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file atnc reads when no path is given.
const DefaultFileName = ".atnc.yaml"

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the settings of the atnc command. A field that is not valid is unset and leaves
// the value of a lower layer in place.
type Config struct {
	LogLevel  null.String `json:"logLevel" yaml:"logLevel" envconfig:"ATNC_LOG_LEVEL"`
	LogFormat null.String `json:"logFormat" yaml:"logFormat" envconfig:"ATNC_LOG_FORMAT"`
	NoColor   null.Bool   `json:"noColor" yaml:"noColor" envconfig:"ATNC_NO_COLOR"`

	// ShowTransformations logs every block-set rewrite.
	ShowTransformations null.Bool `json:"showTransformations" yaml:"showTransformations" envconfig:"ATNC_SHOW_TRANSFORMATIONS"`
	SkipSetReduction    null.Bool `json:"skipSetReduction" yaml:"skipSetReduction" envconfig:"ATNC_SKIP_SET_REDUCTION"`

	// Output is the path `atnc compile` writes to. An empty path means stdout.
	Output null.String `json:"output" yaml:"output" envconfig:"ATNC_OUTPUT"`
}

// NewConfig returns the defaults. They are marked unset so that any layer overrides them.
func NewConfig() Config {
	return Config{
		LogLevel:            null.NewString("warn", false),
		LogFormat:           null.NewString(LogFormatText, false),
		NoColor:             null.NewBool(false, false),
		ShowTransformations: null.NewBool(false, false),
		SkipSetReduction:    null.NewBool(false, false),
		Output:              null.NewString("", false),
	}
}

// Apply overlays the set fields of cfg on c.
func (c Config) Apply(cfg Config) Config {
	if cfg.LogLevel.Valid && cfg.LogLevel.String != "" {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat.Valid && cfg.LogFormat.String != "" {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	if cfg.ShowTransformations.Valid {
		c.ShowTransformations = cfg.ShowTransformations
	}
	if cfg.SkipSetReduction.Valid {
		c.SkipSetReduction = cfg.SkipSetReduction
	}
	if cfg.Output.Valid {
		c.Output = cfg.Output
	}
	return c
}

// Validate checks the values that only a few strings are allowed for.
func (c Config) Validate() error {
	switch c.LogFormat.String {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format: %v", c.LogFormat.String)
	}
	return nil
}

// ReadFile reads a YAML configuration file. A missing file is not an error when required is
// false; it yields an empty Config.
func ReadFile(fs afero.Fs, path string, required bool) (Config, error) {
	cfg := Config{}
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return cfg, err
	}
	if !ok {
		if required {
			return cfg, fmt.Errorf("the configuration file %v does not exist", path)
		}
		return cfg, nil
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %v: %w", path, err)
	}
	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %v: %w", path, err)
	}
	return cfg, nil
}

// ReadEnv reads the ATNC_* variables through lookup.
func ReadEnv(lookup func(key string) (string, bool)) (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg, lookup)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the environment: %w", err)
	}
	return cfg, nil
}

// Load combines the defaults, the configuration file and the environment, in this order. An
// empty path reads DefaultFileName when it exists.
func Load(fs afero.Fs, path string, lookup func(key string) (string, bool)) (Config, error) {
	result := NewConfig()

	required := path != ""
	if path == "" {
		path = DefaultFileName
	}
	fileConf, err := ReadFile(fs, path, required)
	if err != nil {
		return result, err
	}
	result = result.Apply(fileConf)

	envConf, err := ReadEnv(lookup)
	if err != nil {
		return result, err
	}
	result = result.Apply(envConf)

	return result, result.Validate()
}
