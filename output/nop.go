package output

import (
	"context"
	"fmt"

	"github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"
)

// NopOutput is a no-operation output that discards every message.
// It lets the relay run without an OSC receiver.
type NopOutput struct {
	logger *zap.Logger
}

var _ Output = (*NopOutput)(nil)

// NewNopOutput creates a new no-operation output
func NewNopOutput(logger *zap.Logger) (*NopOutput, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &NopOutput{
		logger: logger.Named("output-nop"),
	}, nil
}

// Write discards the message
func (o *NopOutput) Write(_ context.Context, msg *osc.Message) error {
	o.logger.Debug("Discarding OSC message", zap.String("address", msg.Address))
	return nil
}

// Stop performs no work
func (o *NopOutput) Stop(_ context.Context) error {
	o.logger.Info("Stopping NOP output")
	return nil
}
