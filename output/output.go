// Package output delivers product notifications as OSC messages.
package output

import (
	"context"
	"errors"

	"github.com/hypebeast/go-osc/osc"
)

// ErrTransmit is matched by every error caused by a failed message write.
var ErrTransmit = errors.New("transmit failed")

// Writer can consume OSC messages.
type Writer interface {
	// Write sends a single message. Delivery is best effort.
	Write(ctx context.Context, msg *osc.Message) error
}

// Output is the interface for outputting messages.
type Output interface {
	Writer

	// Stop releases the output's resources.
	Stop(ctx context.Context) error
}
