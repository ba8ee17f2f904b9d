package config

import (
	"fmt"
)

// OutputType represents the type of output
type OutputType string

const (
	// OutputTypeNop represents NOP output
	OutputTypeNop OutputType = "nop"
	// OutputTypeOSC represents OSC over UDP output
	OutputTypeOSC OutputType = "osc"
)

// Output contains configuration for output destinations
type Output struct {
	// Type specifies the output type (osc or nop)
	Type OutputType `yaml:"type,omitempty" mapstructure:"type,omitempty"`
	// OSC contains OSC output configuration
	OSC OSCOutputConfig `yaml:"osc,omitempty" mapstructure:"osc,omitempty"`
}

// Validate validates the output configuration
func (o *Output) Validate() error {
	// Allow empty type - defaults will be applied by override system
	if o.Type == "" {
		return nil
	}

	switch o.Type {
	case OutputTypeNop:
		// NOP output still carries a profile for the messages it discards
		if err := o.OSC.validateProfile(); err != nil {
			return fmt.Errorf("OSC output validation failed: %w", err)
		}
	case OutputTypeOSC:
		if err := o.OSC.Validate(); err != nil {
			return fmt.Errorf("OSC output validation failed: %w", err)
		}
	default:
		return fmt.Errorf("invalid output type: %s, must be one of: nop, osc", o.Type)
	}

	return nil
}
