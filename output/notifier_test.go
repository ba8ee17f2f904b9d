package output

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/hypebeast/go-osc/osc"
	"github.com/observiq/barcode-relay/product"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingWriter records written messages and fails the addresses in failOn.
type recordingWriter struct {
	written []*osc.Message
	failOn  map[string]bool
}

func (w *recordingWriter) Write(_ context.Context, msg *osc.Message) error {
	if w.failOn[msg.Address] {
		return fmt.Errorf("%w: %s: connection refused", ErrTransmit, msg.Address)
	}
	w.written = append(w.written, msg)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func nutella() *product.Product {
	return &product.Product{
		Code:            "3017620422003",
		ProductName:     ptr("Nutella"),
		Categories:      ptr("Spreads"),
		IngredientsText: ptr("Sugar, palm oil"),
		NutritionGrades: ptr("e"),
		Nutriments: &product.Nutriments{
			Sugars:        ptr(56.3),
			Fiber:         ptr(0.0),
			EnergyKcal:    ptr(539.0),
			Carbohydrates: ptr(57.5),
			Fat:           ptr(30.9),
			SaturatedFat:  ptr(10.6),
			Proteins:      ptr(6.3),
		},
	}
}

func TestNewNotifier(t *testing.T) {
	w := &recordingWriter{}

	_, err := NewNotifier(nil, w, ProfileFull)
	require.ErrorContains(t, err, "logger cannot be nil")

	_, err = NewNotifier(zap.NewNop(), nil, ProfileFull)
	require.ErrorContains(t, err, "writer cannot be nil")

	_, err = NewNotifier(zap.NewNop(), w, Profile("verbose"))
	require.ErrorContains(t, err, "invalid profile")

	n, err := NewNotifier(zap.NewNop(), w, ProfileMinimal)
	require.NoError(t, err)
	require.Equal(t, ProfileMinimal, n.Profile())
}

func TestNotifier_NotifyFullProfile(t *testing.T) {
	w := &recordingWriter{}
	n, err := NewNotifier(zap.NewNop(), w, ProfileFull)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), nutella()))
	require.Len(t, w.written, 9)

	expected := []struct {
		address string
		value   any
	}{
		{AddressName, "Nutella"},
		{AddressNutritionGrade, "e"},
		{AddressSugars, float32(56.3)},
		{AddressFibers, float32(0)},
		{AddressEnergy, float32(539)},
		{AddressCarbohydrates, float32(57.5)},
		{AddressFat, float32(30.9)},
		{AddressSaturatedFat, float32(10.6)},
		{AddressProteins, float32(6.3)},
	}
	for i, e := range expected {
		require.Equal(t, e.address, w.written[i].Address)
		require.Equal(t, []any{e.value}, w.written[i].Arguments)
	}
}

func TestNotifier_NotifyMinimalProfile(t *testing.T) {
	w := &recordingWriter{}
	n, err := NewNotifier(zap.NewNop(), w, ProfileMinimal)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), nutella()))
	require.Len(t, w.written, 4)

	require.Equal(t, AddressName, w.written[0].Address)
	require.Equal(t, []any{"Nutella"}, w.written[0].Arguments)
	require.Equal(t, AddressCategories, w.written[1].Address)
	require.Equal(t, []any{"Spreads"}, w.written[1].Arguments)
	require.Equal(t, AddressNutritionGrade, w.written[2].Address)
	require.Equal(t, []any{"e"}, w.written[2].Arguments)
	require.Equal(t, AddressIngredients, w.written[3].Address)
	require.Equal(t, []any{"Sugar, palm oil"}, w.written[3].Arguments)
}

func TestNotifier_NotifyDefaults(t *testing.T) {
	w := &recordingWriter{}
	n, err := NewNotifier(zap.NewNop(), w, ProfileFull)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), &product.Product{Code: "12345678"}))
	require.Len(t, w.written, 9)

	require.Equal(t, []any{product.DefaultString}, w.written[0].Arguments)
	require.Equal(t, []any{product.DefaultNutritionGrade}, w.written[1].Arguments)
	for _, msg := range w.written[2:] {
		require.Equal(t, []any{float32(0)}, msg.Arguments, msg.Address)
	}
}

func TestNotifier_NotifyContinuesAfterFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	w := &recordingWriter{failOn: map[string]bool{
		AddressNutritionGrade: true,
		AddressFat:            true,
	}}
	n, err := NewNotifier(zap.New(core), w, ProfileFull)
	require.NoError(t, err)

	err = n.Notify(context.Background(), nutella())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTransmit))

	var notifyErr *NotifyError
	require.True(t, errors.As(err, &notifyErr))
	require.Equal(t, []string{AddressNutritionGrade, AddressFat}, notifyErr.Failed)
	require.Equal(t, 9, notifyErr.Total)
	require.Contains(t, err.Error(), "failed to send 2 of 9 messages")

	// The remaining seven messages were still sent, in order.
	require.Len(t, w.written, 7)
	require.Equal(t, AddressName, w.written[0].Address)
	require.Equal(t, AddressSugars, w.written[1].Address)
	require.Equal(t, AddressProteins, w.written[6].Address)

	require.Equal(t, 2, logs.FilterMessage("Failed to send message").Len())
}

func TestNotifier_NotifyOverUDP(t *testing.T) {
	received, serverAddr := startTestOSCServer(t)

	host, port, err := net.SplitHostPort(serverAddr)
	require.NoError(t, err)

	out, err := NewOSC(zap.NewNop(), host, port)
	require.NoError(t, err)
	defer func() { _ = out.Stop(context.Background()) }()

	n, err := NewNotifier(zap.NewNop(), out, ProfileFull)
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), nutella()))

	for _, address := range ProfileFull.Addresses() {
		msg := receiveMessage(t, received)
		require.Equal(t, address, msg.Address)
	}
}
