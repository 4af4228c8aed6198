// Package config loads the takeoff settings: which property sets carry sizes,
// lengths and bend angles, where the report goes, and how logging looks.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/philipparndt/ifctakeoff/pkg/report"
	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

// Sentinel validation errors.
var (
	ErrEmptyOutputFile  = errors.New("output file must not be empty")
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
	ErrEmptyCancelToken = errors.New("cancel token must not be empty")
	ErrMissingProperty  = errors.New("property name must not be empty")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrUnexpectedLength = errors.New("part categories are counted and take no length property")
)

// Default configuration values. The property names follow the Revit IFC
// exporter, which puts dimensions in the "Dimensions" property set.
const (
	defaultPset        = "Dimensions"
	defaultSize        = "Size"
	defaultLength      = "Length"
	defaultAngle       = "Angle"
	defaultCancelToken = "cancel"
	defaultConfigName  = "ifctakeoff"
)

// Config holds all configuration of the takeoff tool.
type Config struct {
	Output     OutputConfig              `mapstructure:"output" yaml:"output"`
	Prompt     PromptConfig              `mapstructure:"prompt" yaml:"prompt"`
	Logging    LoggingConfig             `mapstructure:"logging" yaml:"logging"`
	Categories map[string]CategoryConfig `mapstructure:"categories" yaml:"categories"`
}

// OutputConfig holds the CSV export settings.
type OutputConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// PromptConfig holds the interactive prompt settings.
type PromptConfig struct {
	CancelToken string `mapstructure:"cancel_token" yaml:"cancel_token"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CategoryConfig names the properties read for one category.
type CategoryConfig struct {
	SizePset       string `mapstructure:"size_pset" yaml:"size_pset"`
	SizeProperty   string `mapstructure:"size_property" yaml:"size_property"`
	LengthPset     string `mapstructure:"length_pset" yaml:"length_pset,omitempty"`
	LengthProperty string `mapstructure:"length_property" yaml:"length_property,omitempty"`
	AnglePset      string `mapstructure:"angle_pset" yaml:"angle_pset,omitempty"`
	AngleProperty  string `mapstructure:"angle_property" yaml:"angle_property,omitempty"`
}

// Spec converts the category settings for the aggregator.
func (c CategoryConfig) Spec() takeoff.Spec {
	return takeoff.Spec{
		SizePset:       c.SizePset,
		SizeProperty:   c.SizeProperty,
		LengthPset:     c.LengthPset,
		LengthProperty: c.LengthProperty,
		AnglePset:      c.AnglePset,
		AngleProperty:  c.AngleProperty,
	}
}

// Specs returns the aggregation settings of every category.
func (c *Config) Specs() takeoff.Specs {
	specs := make(takeoff.Specs, len(c.Categories))
	for key, cat := range c.Categories {
		specs[key] = cat.Spec()
	}
	return specs
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Output.Delimiter)
	return r
}

// LoadConfig loads configuration from the given file, or from
// ifctakeoff.yaml in the working directory when path is empty. A missing
// default file is not an error; the defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(defaultConfigName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Output defaults.
	viperCfg.SetDefault("output.file", report.DefaultFile)
	viperCfg.SetDefault("output.delimiter", string(report.DefaultDelimiter))

	// Prompt defaults.
	viperCfg.SetDefault("prompt.cancel_token", defaultCancelToken)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "warn")
	viperCfg.SetDefault("logging.format", "text")

	// Category defaults.
	for _, c := range takeoff.Categories() {
		prefix := "categories." + c.Key + "."
		viperCfg.SetDefault(prefix+"size_pset", defaultPset)
		viperCfg.SetDefault(prefix+"size_property", defaultSize)

		switch c.Kind {
		case takeoff.Segment:
			viperCfg.SetDefault(prefix+"length_pset", defaultPset)
			viperCfg.SetDefault(prefix+"length_property", defaultLength)
		case takeoff.Part:
			viperCfg.SetDefault(prefix+"angle_pset", defaultPset)
			viperCfg.SetDefault(prefix+"angle_property", defaultAngle)
		}
	}
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Output.File) == "" {
		return ErrEmptyOutputFile
	}

	if utf8.RuneCountInString(config.Output.Delimiter) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, config.Output.Delimiter)
	}

	if strings.TrimSpace(config.Prompt.CancelToken) == "" {
		return ErrEmptyCancelToken
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	for key, cat := range config.Categories {
		c, err := takeoff.CategoryByKey(key)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}

		if cat.SizeProperty == "" {
			return fmt.Errorf("%w: categories.%s.size_property", ErrMissingProperty, key)
		}

		switch c.Kind {
		case takeoff.Segment:
			if cat.LengthProperty == "" {
				return fmt.Errorf("%w: categories.%s.length_property", ErrMissingProperty, key)
			}
		case takeoff.Part:
			if cat.LengthProperty != "" {
				return fmt.Errorf("%w: categories.%s", ErrUnexpectedLength, key)
			}
		}
	}

	return nil
}
