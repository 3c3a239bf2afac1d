// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Configuration holds all configuration for mortgage-analytics.
type Configuration struct {
	Logging     LoggingConfig        `mapstructure:"logging" yaml:"logging,omitempty"`
	Output      OutputConfig         `mapstructure:"output" yaml:"output,omitempty"`
	Property    analytics.Input      `mapstructure:"property" yaml:"property"`
	Scenarios   []string             `mapstructure:"scenarios" yaml:"scenarios"`
	Assumptions scenario.Assumptions `mapstructure:"assumptions" yaml:"assumptions,omitempty"`
	Surface     SurfaceConfig        `mapstructure:"surface" yaml:"surface,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, pdf
}

// SurfaceConfig controls the cash-flow surface sweep.
type SurfaceConfig struct {
	Workers         int     `mapstructure:"workers" yaml:"workers,omitempty"`
	MinimumCashflow float64 `mapstructure:"minimumCashflow" yaml:"minimumCashflow,omitempty"`
	ViableOnly      bool    `mapstructure:"viableOnly" yaml:"viableOnly,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with MORTGAGE override
// file values, e.g. MORTGAGE_PROPERTY_PRICE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationOrDefaults behaves like LoadConfiguration but falls back to
// built-in defaults when the file does not exist.
func LoadConfigurationOrDefaults(configPath string) (*Configuration, error) {
	conf, err := LoadConfiguration(configPath)
	if err == nil {
		return conf, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return decode(newViper())
	}
	return nil, err
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are static; a decode failure is a programming error.
		panic(fmt.Sprintf("invalid built-in configuration: %v", err))
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("property.price", constants.DefaultPrice)
	v.SetDefault("property.rent", constants.DefaultRent)
	v.SetDefault("property.serviceCharge", constants.DefaultServiceCharge)
	v.SetDefault("property.additionalExpenses", constants.DefaultAdditionalExpenses)
	v.SetDefault("property.term", constants.DefaultTerm)
	v.SetDefault("scenarios", scenario.AllLabels())
	v.SetDefault("surface.workers", 0)
	v.SetDefault("surface.minimumCashflow", constants.DefaultMinimumCashflow)
	v.SetDefault("surface.viableOnly", false)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	assumptions, err := overlayAssumptions(v)
	if err != nil {
		return nil, err
	}
	configuration.Assumptions = assumptions
	return &configuration, nil
}

// overlayAssumptions applies every assumption key present in the file or
// environment to DefaultAssumptions. Explicit zeros are kept.
func overlayAssumptions(v *viper.Viper) (scenario.Assumptions, error) {
	merged := scenario.DefaultAssumptions
	for _, field := range merged.Fields() {
		key := "assumptions." + field.Name
		if !v.IsSet(key) {
			continue
		}
		value, err := cast.ToFloat64E(v.Get(key))
		if err != nil {
			return scenario.Assumptions{}, fmt.Errorf("invalid assumption %s: %w", field.Name, err)
		}
		*field.Value = value
	}
	if err := merged.Validate(); err != nil {
		return scenario.Assumptions{}, fmt.Errorf("invalid assumptions: %w", err)
	}
	return merged, nil
}

// SelectedScenarios expands the configured scenario labels.
func (c *Configuration) SelectedScenarios() []scenario.Scenario {
	return scenario.ExpandSelection(c.Scenarios)
}

// Engine builds an analytics engine from the configured assumptions and
// surface parallelism.
func (c *Configuration) Engine(logger *zap.Logger) *analytics.Engine {
	return analytics.NewEngine(logger, c.Assumptions, c.Surface.Workers)
}

// SurfaceRequest builds the surface sweep over the default grid for the
// configured service charge, term and scenarios.
func (c *Configuration) SurfaceRequest() analytics.SurfaceRequest {
	return analytics.SurfaceRequest{
		Grid:          analytics.DefaultGrid(),
		ServiceCharge: c.Property.ServiceCharge,
		Term:          c.Property.Term,
		Scenarios:     c.SelectedScenarios(),
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard input errors are left to the analytics engine.
func (c *Configuration) ValidateConfiguration() []string {
	warnings := c.scenarioWarnings()

	p := c.Property
	if p.Price < constants.MinTypicalPrice || p.Price > constants.MaxTypicalPrice {
		warnings = append(warnings, fmt.Sprintf("Price %.2f is outside the typical range %.0f-%.0f",
			p.Price, constants.MinTypicalPrice, constants.MaxTypicalPrice))
	}
	if p.Rent < constants.MinTypicalRent || p.Rent > constants.MaxTypicalRent {
		warnings = append(warnings, fmt.Sprintf("Rent %.2f is outside the typical range %.0f-%.0f",
			p.Rent, constants.MinTypicalRent, constants.MaxTypicalRent))
	}
	warnings = append(warnings, c.termWarnings()...)
	return append(warnings, c.workerWarnings()...)
}

// ValidateSurfaceConfiguration returns warnings for the settings a surface
// sweep reads. Price and rent come from the grid, so they are not checked.
func (c *Configuration) ValidateSurfaceConfiguration() []string {
	warnings := c.scenarioWarnings()
	warnings = append(warnings, c.termWarnings()...)
	return append(warnings, c.workerWarnings()...)
}

func (c *Configuration) scenarioWarnings() []string {
	var warnings []string
	for _, label := range scenario.UnknownLabels(c.Scenarios) {
		warnings = append(warnings, fmt.Sprintf("Unknown scenario label '%s' is ignored; expected one of: %s",
			label, strings.Join(scenario.AllLabels(), ", ")))
	}
	for _, group := range scenario.MissingGroups(c.Scenarios) {
		warnings = append(warnings, fmt.Sprintf("No %s selected - no scenarios will be computed", group))
	}
	return warnings
}

func (c *Configuration) termWarnings() []string {
	if t := c.Property.Term; t < constants.MinTypicalTerm || t > constants.MaxTypicalTerm {
		return []string{fmt.Sprintf("Term %d years is outside the typical range %d-%d",
			t, constants.MinTypicalTerm, constants.MaxTypicalTerm)}
	}
	return nil
}

func (c *Configuration) workerWarnings() []string {
	if c.Surface.Workers < 0 {
		return []string{fmt.Sprintf("Surface workers %d is negative; using one worker per CPU", c.Surface.Workers)}
	}
	return nil
}
