package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultLookupURL is the default catalog base URL
	DefaultLookupURL = "https://world.openfoodfacts.org"
	// DefaultLookupUserAgent is the default client label sent to the catalog
	DefaultLookupUserAgent = "VirtualSupermarketTechno/1.0"
	// DefaultLookupTimeout is the default per lookup timeout
	DefaultLookupTimeout = 30 * time.Second
)

var (
	// errInvalidLookupURL is returned when the catalog URL cannot be used.
	errInvalidLookupURL = errors.New("invalid lookup url")
	// errEmptyUserAgent is returned when the user agent is blank.
	errEmptyUserAgent = errors.New("lookup user agent cannot be empty")
)

// DefaultLookupFields returns the catalog fields requested by default.
func DefaultLookupFields() []string {
	return []string{"product_name", "categories", "ingredients_text", "nutrition_grades", "nutriments"}
}

// Lookup contains configuration for the product catalog client
type Lookup struct {
	// URL is the catalog base URL
	URL string `yaml:"url,omitempty" mapstructure:"url,omitempty"`
	// UserAgent identifies the application to the catalog
	UserAgent string `yaml:"userAgent,omitempty" mapstructure:"userAgent,omitempty"`
	// Fields is the field selection; empty fetches full records
	Fields []string `yaml:"fields,omitempty" mapstructure:"fields,omitempty"`
	// Timeout bounds a single lookup; zero disables it
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout,omitempty"`
}

// Validate validates the lookup configuration
func (l *Lookup) Validate() error {
	if l.URL != "" {
		u, err := url.Parse(l.URL)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidLookupURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: scheme must be http or https, got %q", errInvalidLookupURL, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: missing host", errInvalidLookupURL)
		}
	}

	if l.UserAgent != "" && strings.TrimSpace(l.UserAgent) == "" {
		return errEmptyUserAgent
	}

	for _, f := range l.Fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("lookup fields cannot contain an empty name")
		}
	}

	if l.Timeout < 0 {
		return fmt.Errorf("lookup timeout cannot be negative, got %s", l.Timeout)
	}

	return nil
}
