package config

import (
	"fmt"

	"github.com/observiq/barcode-relay/output"
)

const (
	// DefaultOSCHost is the default OSC destination host
	DefaultOSCHost = "127.0.0.1"
	// DefaultOSCPort is the default OSC destination port
	DefaultOSCPort = 5005
)

// OSCOutputConfig contains configuration for OSC output
type OSCOutputConfig struct {
	// Host is the target host for OSC messages
	Host string `yaml:"host,omitempty" mapstructure:"host,omitempty"`
	// Port is the target UDP port for OSC messages
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
	// Profile selects the message set sent per product, one of output.ProfileFull
	// or output.ProfileMinimal
	Profile output.Profile `yaml:"profile,omitempty" mapstructure:"profile,omitempty"`
}

// Validate validates the OSC output configuration
func (c *OSCOutputConfig) Validate() error {
	if err := ValidateHost(c.Host); err != nil {
		return fmt.Errorf("OSC output host validation failed: %w", err)
	}

	if err := ValidatePort(c.Port); err != nil {
		return fmt.Errorf("OSC output port validation failed: %w", err)
	}

	return c.validateProfile()
}

func (c *OSCOutputConfig) validateProfile() error {
	if c.Profile == "" {
		return nil
	}
	if _, err := output.ParseProfile(string(c.Profile)); err != nil {
		return fmt.Errorf("OSC output profile validation failed: %w", err)
	}
	return nil
}
