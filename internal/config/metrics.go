package config

import (
	"fmt"
)

// Metrics contains configuration for the Prometheus metrics endpoint
type Metrics struct {
	// Address is the host:port serving /metrics. Empty disables metrics.
	Address string `yaml:"address,omitempty" mapstructure:"address,omitempty"`
}

// Enabled reports whether the metrics endpoint should be served
func (m *Metrics) Enabled() bool {
	return m.Address != ""
}

// Validate validates the metrics configuration
func (m *Metrics) Validate() error {
	if !m.Enabled() {
		return nil
	}

	if err := ValidateAddress(m.Address); err != nil {
		return fmt.Errorf("metrics address validation failed: %w", err)
	}
	return nil
}
