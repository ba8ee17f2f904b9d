package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/observiq/barcode-relay/product"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// NotifyError reports the messages of one product that could not be sent.
type NotifyError struct {
	// Failed lists the addresses whose write failed, in send order.
	Failed []string
	// Total is the number of messages attempted.
	Total int
	// Err aggregates the individual write errors.
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("failed to send %d of %d messages (%s): %v",
		len(e.Failed), e.Total, strings.Join(e.Failed, ", "), e.Err)
}

// Unwrap returns the individual write errors.
func (e *NotifyError) Unwrap() []error {
	return multierr.Errors(e.Err)
}

// Notifier sends the fields of a product as independent messages.
type Notifier struct {
	logger  *zap.Logger
	writer  Writer
	profile Profile
}

// NewNotifier returns a Notifier writing the given profile to writer.
func NewNotifier(logger *zap.Logger, writer Writer, profile Profile) (*Notifier, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}
	if profile.Addresses() == nil {
		return nil, fmt.Errorf("invalid profile: %q", string(profile))
	}

	return &Notifier{
		logger:  logger.Named("notifier"),
		writer:  writer,
		profile: profile,
	}, nil
}

// Profile returns the active profile.
func (n *Notifier) Profile() Profile {
	return n.profile
}

// Notify writes every message of the active profile for p, in order.
// A failed write does not stop the remaining ones; all failures are
// returned together as a *NotifyError.
func (n *Notifier) Notify(ctx context.Context, p *product.Product) error {
	messages, err := n.profile.Messages(product.Extract(p))
	if err != nil {
		return err
	}

	var (
		errs   error
		failed []string
	)
	for _, msg := range messages {
		if err := n.writer.Write(ctx, msg); err != nil {
			n.logger.Error("Failed to send message",
				zap.String("address", msg.Address),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
			failed = append(failed, msg.Address)
		}
	}

	if errs != nil {
		return &NotifyError{Failed: failed, Total: len(messages), Err: errs}
	}

	n.logger.Debug("Sent product messages",
		zap.String("profile", string(n.profile)),
		zap.Int("messages", len(messages)),
	)
	return nil
}
