// Package metrics provides a Prometheus exporter
// for serving metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

const (
	serviceName = "barcode-relay"

	// MetricsPath is the HTTP path serving metrics.
	MetricsPath = "/metrics"

	readHeaderTimeout = 5 * time.Second
)

// Prometheus is an OpenTelemetry Prometheus exporter served over HTTP.
type Prometheus struct {
	logger    *zap.Logger
	address   string
	resources *resource.Resource
	provider  *sdkmetric.MeterProvider
	listener  net.Listener
	server    *http.Server
}

// NewPrometheus creates a new Prometheus provider that will listen on address.
func NewPrometheus(logger *zap.Logger, address string) (*Prometheus, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if address == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}

	r := []attribute.KeyValue{
		semconv.ServiceNameKey.String(serviceName),
		semconv.HostNameKey.String(hostname),
	}

	return &Prometheus{
		logger:    logger.Named("metrics"),
		address:   address,
		resources: resource.NewWithAttributes(semconv.SchemaURL, r...),
	}, nil
}

// Start registers the global meter provider and starts serving metrics.
func (p *Prometheus) Start(_ context.Context) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("create exporter: %w", err)
	}

	p.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(p.resources),
	)
	otel.SetMeterProvider(p.provider)

	listener, err := net.Listen("tcp", p.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", p.address, err)
	}
	p.listener = listener

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	p.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	p.logger.Info("Serving metrics", zap.String("address", p.Address()), zap.String("path", MetricsPath))
	return nil
}

// Address returns the address metrics are served on, resolved once
// Start has been called.
func (p *Prometheus) Address() string {
	if p.listener != nil {
		return p.listener.Addr().String()
	}
	return p.address
}

// Shutdown stops the HTTP server and the meter provider
func (p *Prometheus) Shutdown(ctx context.Context) error {
	var errs []error
	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}
	if p.provider != nil {
		if err := p.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
