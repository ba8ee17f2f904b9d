// Package logging contains the logging logic for barcode-relay
package logging

import (
	"fmt"
	"os"
	"strings"

	relayconfig "github.com/observiq/barcode-relay/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new Logger for the specified config.
// If the config is empty, it defaults to stderr at info level so that
// structured logs never interleave with the console prompt on stdout.
func NewLogger(cfg relayconfig.Logging) (*zap.Logger, error) {
	level := parseZapLevel(cfg.Level)

	var sink zapcore.WriteSyncer
	switch strings.TrimSpace(strings.ToLower(cfg.Type)) {
	case "", relayconfig.LoggingTypeStderr:
		sink = os.Stderr
	case relayconfig.LoggingTypeStdout:
		sink = os.Stdout
	default:
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}

	core := zapcore.NewCore(newEncoder(), zapcore.Lock(sink), level)
	return zap.New(core), nil
}

func parseZapLevel(level relayconfig.LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case string(relayconfig.LogLevelDebug):
		return zapcore.DebugLevel
	case string(relayconfig.LogLevelWarn):
		return zapcore.WarnLevel
	case string(relayconfig.LogLevelError):
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
