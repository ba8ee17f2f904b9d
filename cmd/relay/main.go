// Package main is the main package for the barcode relay.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/observiq/barcode-relay/internal/config"
	"github.com/observiq/barcode-relay/internal/logging"
	"github.com/observiq/barcode-relay/internal/service"
	"github.com/observiq/barcode-relay/internal/telemetry/metrics"
	"github.com/observiq/barcode-relay/lookup"
	"github.com/observiq/barcode-relay/output"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const stopTimeout = 5 * time.Second

func main() {
	// Bind overrides to flags and environment variables
	flags := pflag.NewFlagSet("barcode-relay", pflag.ExitOnError)
	for _, override := range config.DefaultOverrides() {
		if err := override.Bind(flags); err != nil {
			fmt.Printf("Failed to bind override %s: %s\n", override.Field, err.Error())
			os.Exit(1)
		}
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Failed to parse flags: %s\n", err.Error())
		os.Exit(1)
	}

	// Configure Viper to handle env overrides
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfg := config.NewConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Printf("Failed to unmarshal config: %s\n", err.Error())
		os.Exit(1)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Failed to validate config: %s\n", err.Error())
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %s\n", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, cfg); err != nil {
		logger.Error("barcode-relay failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg *config.Config) error {
	ctx := context.Background()
	logger.Info("barcode-relay started")

	// Metrics first so every component's instruments use the exporter
	if cfg.Metrics.Enabled() {
		prom, err := metrics.NewPrometheus(logger, cfg.Metrics.Address)
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
		if err := prom.Start(ctx); err != nil {
			return fmt.Errorf("start metrics: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if err := prom.Shutdown(stopCtx); err != nil {
				logger.Error("Failed to stop metrics", zap.Error(err))
			}
		}()
	}

	outputInstance, err := newOutput(logger, cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := outputInstance.Stop(stopCtx); err != nil {
			logger.Error("Failed to stop output", zap.Error(err))
		}
	}()

	profile, err := output.ParseProfile(string(cfg.Output.OSC.Profile))
	if err != nil {
		return err
	}

	notifier, err := output.NewNotifier(logger, outputInstance, profile)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}

	resolver, err := lookup.NewOpenFoodFacts(
		logger,
		lookup.WithBaseURL(cfg.Lookup.URL),
		lookup.WithUserAgent(cfg.Lookup.UserAgent),
		lookup.WithFields(cfg.Lookup.Fields),
		lookup.WithTimeout(cfg.Lookup.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}

	svc, err := service.New(logger, resolver, notifier, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	logger.Info("barcode-relay shutdown complete")
	return nil
}

// newOutput builds the configured output and announces its destination
// on the console.
func newOutput(logger *zap.Logger, cfg config.Output) (output.Output, error) {
	switch cfg.Type {
	case config.OutputTypeOSC:
		osc, err := output.NewOSC(logger, cfg.OSC.Host, strconv.Itoa(cfg.OSC.Port))
		if err != nil {
			return nil, fmt.Errorf("create OSC output: %w", err)
		}
		fmt.Printf("OSC client configured to send to %s\n", osc.Address())
		return osc, nil
	case config.OutputTypeNop:
		nop, err := output.NewNopOutput(logger)
		if err != nil {
			return nil, fmt.Errorf("create NOP output: %w", err)
		}
		fmt.Println("OSC output disabled, product data will not be sent")
		return nop, nil
	default:
		return nil, fmt.Errorf("invalid output type: %s", cfg.Type)
	}
}
