package output

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DefaultOSCWriteTimeout is the default timeout for writing a datagram
const DefaultOSCWriteTimeout = 5 * time.Second

// OSC implements the Output interface by sending OSC messages over UDP.
// The socket is opened once and reused until Stop. It is not connected,
// so an absent receiver never surfaces as a write error.
type OSC struct {
	logger      *zap.Logger
	host        string
	port        string
	conn        net.PacketConn
	destination *net.UDPAddr
	stopped     bool

	messagesSent metric.Int64Counter
	sendErrors   metric.Int64Counter
}

var _ Output = (*OSC)(nil)

// NewOSC creates a new OSC output instance
func NewOSC(logger *zap.Logger, host, port string) (*OSC, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if host == "" {
		return nil, fmt.Errorf("host cannot be empty")
	}
	if port == "" {
		return nil, fmt.Errorf("port cannot be empty")
	}

	meter := otel.Meter("barcode-relay-osc-output")

	messagesSent, err := meter.Int64Counter(
		"barcode_relay.osc.messages.sent",
		metric.WithDescription("Number of OSC messages written to the destination"),
	)
	if err != nil {
		return nil, fmt.Errorf("create messages sent counter: %w", err)
	}

	sendErrors, err := meter.Int64Counter(
		"barcode_relay.osc.send.errors",
		metric.WithDescription("Total number of OSC send errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("create send errors counter: %w", err)
	}

	o := &OSC{
		logger:       logger.Named("output-osc"),
		host:         host,
		port:         port,
		messagesSent: messagesSent,
		sendErrors:   sendErrors,
	}

	if err := o.connect(); err != nil {
		return nil, err
	}

	o.logger.Info("Starting OSC output",
		zap.String("host", o.host),
		zap.String("port", o.port),
	)

	return o, nil
}

// Address returns the destination as host:port.
func (o *OSC) Address() string {
	return net.JoinHostPort(o.host, o.port)
}

// Write encodes msg and sends it as a single datagram. There is no
// acknowledgement; a nil error only means the datagram left the socket.
func (o *OSC) Write(ctx context.Context, msg *osc.Message) error {
	if o.stopped {
		return fmt.Errorf("%w: OSC output is stopped", ErrTransmit)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context cancelled before write: %w", ErrTransmit, err)
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		o.recordSendError("encode_error")
		return fmt.Errorf("%w: encode %s: %w", ErrTransmit, msg.Address, err)
	}

	if err := o.sendData(data); err != nil {
		o.recordSendError("write_error")
		return fmt.Errorf("%w: %s: %w", ErrTransmit, msg.Address, err)
	}

	o.messagesSent.Add(ctx, 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "output_osc"),
			),
		),
	)
	o.logger.Debug("OSC message sent",
		zap.String("address", msg.Address),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Stop closes the UDP socket. Writes after Stop fail.
func (o *OSC) Stop(_ context.Context) error {
	if o.stopped {
		return fmt.Errorf("OSC output already stopped")
	}
	o.stopped = true

	o.logger.Info("Stopping OSC output")
	if err := o.conn.Close(); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

// connect resolves the configured destination and opens the local socket
func (o *OSC) connect() error {
	address := o.Address()

	destination, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", address, err)
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return fmt.Errorf("failed to open socket for %s: %w", address, err)
	}

	o.destination = destination
	o.conn = conn
	return nil
}

// sendData sends data to the destination with a timeout
func (o *OSC) sendData(data []byte) error {
	if err := o.conn.SetWriteDeadline(time.Now().Add(DefaultOSCWriteTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if _, err := o.conn.WriteTo(data, o.destination); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	return nil
}

func (o *OSC) recordSendError(errorType string) {
	o.sendErrors.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "output_osc"),
				attribute.String("error_type", errorType),
			),
		),
	)
}
