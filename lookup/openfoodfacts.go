package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/observiq/barcode-relay/product"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Open Food Facts endpoint.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// DefaultUserAgent identifies the application to Open Food Facts,
	// which requires a descriptive user agent.
	DefaultUserAgent = "VirtualSupermarketTechno/1.0"

	// DefaultTimeout bounds a single lookup round trip.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// DefaultFields is the field selection requested from the catalog.
var DefaultFields = []string{
	"product_name",
	"categories",
	"ingredients_text",
	"nutrition_grades",
	"nutriments",
}

// OpenFoodFactsOption is a functional option for configuring the client
type OpenFoodFactsOption func(*OpenFoodFactsConfig) error

// OpenFoodFactsConfig holds configuration for the Open Food Facts client
type OpenFoodFactsConfig struct {
	baseURL    string
	userAgent  string
	fields     []string
	timeout    time.Duration
	httpClient *http.Client
}

// WithBaseURL sets the catalog base URL
func WithBaseURL(baseURL string) OpenFoodFactsOption {
	return func(cfg *OpenFoodFactsConfig) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
		}
		cfg.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithUserAgent sets the user agent sent with every request
func WithUserAgent(userAgent string) OpenFoodFactsOption {
	return func(cfg *OpenFoodFactsConfig) error {
		if strings.TrimSpace(userAgent) == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		cfg.userAgent = userAgent
		return nil
	}
}

// WithFields sets the fields requested from the catalog. An empty
// selection fetches the full record.
func WithFields(fields []string) OpenFoodFactsOption {
	return func(cfg *OpenFoodFactsConfig) error {
		cfg.fields = fields
		return nil
	}
}

// WithTimeout sets the per lookup timeout. Zero disables it.
func WithTimeout(timeout time.Duration) OpenFoodFactsOption {
	return func(cfg *OpenFoodFactsConfig) error {
		if timeout < 0 {
			return fmt.Errorf("timeout cannot be negative, got %s", timeout)
		}
		cfg.timeout = timeout
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) OpenFoodFactsOption {
	return func(cfg *OpenFoodFactsConfig) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cfg.httpClient = client
		return nil
	}
}

// OpenFoodFacts resolves barcodes with the Open Food Facts v2 product API.
type OpenFoodFacts struct {
	logger     *zap.Logger
	baseURL    string
	userAgent  string
	fields     []string
	timeout    time.Duration
	httpClient *http.Client

	lookups       metric.Int64Counter
	lookupLatency metric.Float64Histogram
}

var _ Resolver = (*OpenFoodFacts)(nil)

// NewOpenFoodFacts creates a new Open Food Facts resolver using functional options
func NewOpenFoodFacts(logger *zap.Logger, opts ...OpenFoodFactsOption) (*OpenFoodFacts, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	cfg := &OpenFoodFactsConfig{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		fields:     DefaultFields,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	meter := otel.Meter("barcode-relay-lookup")

	lookups, err := meter.Int64Counter(
		"barcode_relay.lookup.requests",
		metric.WithDescription("Number of catalog lookups by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lookups counter: %w", err)
	}

	lookupLatency, err := meter.Float64Histogram(
		"barcode_relay.lookup.latency",
		metric.WithDescription("Catalog lookup latency in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lookup latency histogram: %w", err)
	}

	c := &OpenFoodFacts{
		logger:        logger.Named("lookup-openfoodfacts"),
		baseURL:       cfg.baseURL,
		userAgent:     cfg.userAgent,
		fields:        cfg.fields,
		timeout:       cfg.timeout,
		httpClient:    cfg.httpClient,
		lookups:       lookups,
		lookupLatency: lookupLatency,
	}

	c.logger.Info("Configured Open Food Facts lookup",
		zap.String("base_url", c.baseURL),
		zap.String("user_agent", c.userAgent),
		zap.Strings("fields", c.fields),
		zap.Duration("timeout", c.timeout),
	)

	return c, nil
}

// Resolve fetches the product for barcode. It never retries.
func (c *OpenFoodFacts) Resolve(ctx context.Context, barcode string) Result {
	start := time.Now()
	result := c.resolve(ctx, barcode)

	attrs := metric.WithAttributeSet(attribute.NewSet(
		attribute.String("component", "lookup_openfoodfacts"),
		attribute.String("outcome", result.Status.String()),
	))
	c.lookups.Add(ctx, 1, attrs)
	c.lookupLatency.Record(ctx, time.Since(start).Seconds(), attrs)

	switch result.Status {
	case StatusError:
		c.logger.Warn("Lookup failed", zap.String("barcode", barcode), zap.Error(result.Err))
	default:
		c.logger.Debug("Lookup complete",
			zap.String("barcode", barcode),
			zap.Stringer("status", result.Status),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return result
}

func (c *OpenFoodFacts) resolve(ctx context.Context, barcode string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(barcode), nil)
	if err != nil {
		return Failed(barcode, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failed(barcode, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return NotFound()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed(barcode, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Failed(barcode, fmt.Errorf("read response: %w", err))
	}

	return parseProductResponse(barcode, body)
}

// productURL builds the v2 product endpoint for barcode. Commas between
// field names are left unescaped as the API expects.
func (c *OpenFoodFacts) productURL(barcode string) string {
	u := c.baseURL + "/api/v2/product/" + url.PathEscape(barcode)
	if len(c.fields) == 0 {
		return u
	}

	escaped := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		escaped = append(escaped, url.QueryEscape(f))
	}
	return u + "?fields=" + strings.Join(escaped, ",")
}

func parseProductResponse(barcode string, body []byte) Result {
	if !gjson.ValidBytes(body) {
		return Failed(barcode, fmt.Errorf("malformed response body"))
	}

	root := gjson.ParseBytes(body)
	if status := root.Get("status"); status.Exists() && status.Int() == 0 {
		return NotFound()
	}

	doc := root.Get("product")
	if !doc.IsObject() {
		return Failed(barcode, fmt.Errorf("response has no product object"))
	}

	p := &product.Product{
		Code:            barcode,
		ProductName:     stringField(doc.Get("product_name")),
		Categories:      stringField(doc.Get("categories")),
		IngredientsText: stringField(doc.Get("ingredients_text")),
		NutritionGrades: stringField(doc.Get("nutrition_grades")),
	}
	if code := root.Get("code"); code.Type == gjson.String && code.String() != "" {
		p.Code = code.String()
	}

	if n := doc.Get("nutriments"); n.IsObject() {
		p.Nutriments = &product.Nutriments{
			Sugars:        numberField(n.Get("sugars")),
			Fiber:         numberField(n.Get("fiber")),
			EnergyKcal:    numberField(n.Get("energy-kcal")),
			Carbohydrates: numberField(n.Get("carbohydrates")),
			Fat:           numberField(n.Get("fat")),
			SaturatedFat:  numberField(n.Get("saturated-fat")),
			Proteins:      numberField(n.Get("proteins")),
		}
	}

	return Found(p)
}

func stringField(r gjson.Result) *string {
	switch r.Type {
	case gjson.String, gjson.Number:
		s := r.String()
		return &s
	default:
		return nil
	}
}

// numberField accepts numbers and numeric strings; the catalog emits both.
func numberField(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Float()
		return &v
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}
