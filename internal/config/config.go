// Package config contains the top level configuration structures and logic
package config

import "github.com/observiq/barcode-relay/output"

// Config is the configuration for barcode-relay.
type Config struct {
	// Logging configuration for the logger
	Logging Logging `yaml:"logging,omitempty" mapstructure:"logging,omitempty"`
	// Lookup configuration for the product catalog
	Lookup Lookup `yaml:"lookup,omitempty" mapstructure:"lookup,omitempty"`
	// Output configuration
	Output Output `yaml:"output,omitempty" mapstructure:"output,omitempty"`
	// Metrics configuration
	Metrics Metrics `yaml:"metrics,omitempty" mapstructure:"metrics,omitempty"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Lookup.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

// NewConfig returns a new config
func NewConfig() *Config {
	return &Config{}
}

// ApplyDefaults applies default values to the configuration
func (c *Config) ApplyDefaults() {
	if c.Logging.Type == "" {
		c.Logging.Type = LoggingTypeStderr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}

	if c.Lookup.URL == "" {
		c.Lookup.URL = DefaultLookupURL
	}
	if c.Lookup.UserAgent == "" {
		c.Lookup.UserAgent = DefaultLookupUserAgent
	}

	if c.Output.Type == "" {
		c.Output.Type = OutputTypeOSC
	}
	if c.Output.OSC.Host == "" {
		c.Output.OSC.Host = DefaultOSCHost
	}
	if c.Output.OSC.Port == 0 {
		c.Output.OSC.Port = DefaultOSCPort
	}
	if c.Output.OSC.Profile == "" {
		c.Output.OSC.Profile = output.ProfileFull
	}
}
