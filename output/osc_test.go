package output

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewOSC(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name        string
		logger      *zap.Logger
		host        string
		port        string
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid configuration",
			logger:  logger,
			host:    "127.0.0.1",
			port:    "5005",
			wantErr: false,
		},
		{
			name:    "valid configuration with hostname",
			logger:  logger,
			host:    "localhost",
			port:    "9000",
			wantErr: false,
		},
		{
			name:        "nil logger",
			logger:      nil,
			host:        "127.0.0.1",
			port:        "5005",
			wantErr:     true,
			errContains: "logger cannot be nil",
		},
		{
			name:        "empty host",
			logger:      logger,
			host:        "",
			port:        "5005",
			wantErr:     true,
			errContains: "host cannot be empty",
		},
		{
			name:        "empty port",
			logger:      logger,
			host:        "127.0.0.1",
			port:        "",
			wantErr:     true,
			errContains: "port cannot be empty",
		},
		{
			name:        "invalid port",
			logger:      logger,
			host:        "127.0.0.1",
			port:        "not-a-port",
			wantErr:     true,
			errContains: "failed to resolve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewOSC(tt.logger, tt.host, tt.port)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewOSC() expected error but got none")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewOSC() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewOSC() unexpected error = %v", err)
				return
			}
			if out.host != tt.host {
				t.Errorf("NewOSC() host = %v, want %v", out.host, tt.host)
			}
			if out.port != tt.port {
				t.Errorf("NewOSC() port = %v, want %v", out.port, tt.port)
			}
			if out.conn == nil {
				t.Errorf("NewOSC() conn is nil")
			}
			if out.destination == nil {
				t.Errorf("NewOSC() destination is nil")
			}

			_ = out.Stop(context.Background())
		})
	}
}

func TestOSC_Integration(t *testing.T) {
	received, serverAddr := startTestOSCServer(t)

	host, port, err := net.SplitHostPort(serverAddr)
	require.NoError(t, err)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)
	defer func() { _ = out.Stop(context.Background()) }()

	require.Equal(t, serverAddr, out.Address())

	ctx := context.Background()
	require.NoError(t, out.Write(ctx, osc.NewMessage(AddressName, "Nutella")))
	require.NoError(t, out.Write(ctx, osc.NewMessage(AddressSugars, float32(56.3))))

	first := receiveMessage(t, received)
	require.Equal(t, AddressName, first.Address)
	require.Equal(t, []any{"Nutella"}, first.Arguments)

	second := receiveMessage(t, received)
	require.Equal(t, AddressSugars, second.Address)
	require.Equal(t, []any{float32(56.3)}, second.Arguments)
}

func TestOSC_WriteAfterStop(t *testing.T) {
	_, serverAddr := startTestOSCServer(t)

	host, port, err := net.SplitHostPort(serverAddr)
	require.NoError(t, err)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, out.Stop(ctx))

	err = out.Write(ctx, osc.NewMessage(AddressName, "late"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTransmit))
	require.Contains(t, err.Error(), "OSC output is stopped")
}

func TestOSC_WriteCancelledContext(t *testing.T) {
	_, serverAddr := startTestOSCServer(t)

	host, port, err := net.SplitHostPort(serverAddr)
	require.NoError(t, err)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)
	defer func() { _ = out.Stop(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = out.Write(ctx, osc.NewMessage(AddressName, "cancelled"))
	require.True(t, errors.Is(err, ErrTransmit))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestOSC_StopTwice(t *testing.T) {
	_, serverAddr := startTestOSCServer(t)

	host, port, err := net.SplitHostPort(serverAddr)
	require.NoError(t, err)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, out.Stop(ctx))
	require.ErrorContains(t, out.Stop(ctx), "already stopped")
}

func TestOSC_WriteWithoutReceiver(t *testing.T) {
	host, port := closedUDPPort(t)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)
	defer func() { _ = out.Stop(context.Background()) }()

	// ICMP port unreachable replies must not turn later writes into errors
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, out.Write(ctx, osc.NewMessage(AddressName, "Nutella")))
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNopOutput(t *testing.T) {
	_, err := NewNopOutput(nil)
	require.ErrorContains(t, err, "logger cannot be nil")

	out, err := NewNopOutput(zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, out.Write(context.Background(), osc.NewMessage(AddressName, "discarded")))
	require.NoError(t, out.Stop(context.Background()))
}

// startTestOSCServer listens on a random loopback port and decodes every
// datagram it receives as an OSC message.
func startTestOSCServer(t *testing.T) (<-chan *osc.Message, string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test UDP server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	received := make(chan *osc.Message, 32)
	go func() {
		buffer := make([]byte, 65535)
		for {
			n, _, err := conn.ReadFrom(buffer)
			if err != nil {
				// Connection closed, exit
				return
			}

			packet, err := osc.ParsePacket(string(buffer[:n]))
			if err != nil {
				continue
			}
			if msg, ok := packet.(*osc.Message); ok {
				received <- msg
			}
		}
	}()

	return received, conn.LocalAddr().String()
}

func receiveMessage(t *testing.T, received <-chan *osc.Message) *osc.Message {
	t.Helper()

	select {
	case msg := <-received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for OSC message")
		return nil
	}
}

// closedUDPPort returns a loopback host and port nothing is listening on.
func closedUDPPort(t *testing.T) (string, string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	address := conn.LocalAddr().String()
	require.NoError(t, conn.Close())

	host, port, err := net.SplitHostPort(address)
	require.NoError(t, err)
	return host, port
}
