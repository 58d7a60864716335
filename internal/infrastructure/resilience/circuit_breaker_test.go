package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/infrastructure/resilience"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

type flakyStore struct {
	calls int
	err   error
}

func (f *flakyStore) Put(_ context.Context, objectName, _ string, _ []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://example.test/" + objectName, nil
}

func TestReceiptStore_AbreTrasFallosConsecutivos(t *testing.T) {
	inner := &flakyStore{err: errors.New("bucket no disponible")}
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{FailureThreshold: 2, Timeout: time.Minute}, logger.Nop())
	store := resilience.NewReceiptStore(inner, breaker)

	for i := 0; i < 2; i++ {
		_, err := store.Put(context.Background(), "a.pdf", "application/pdf", nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err := store.Put(context.Background(), "a.pdf", "application/pdf", nil)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls, "con el circuito abierto no se llama al almacén")
}

func TestReceiptStore_DevuelveURL(t *testing.T) {
	store := resilience.NewReceiptStore(&flakyStore{}, resilience.NewCircuitBreaker(resilience.BreakerConfig{}, logger.Nop()))
	url, err := store.Put(context.Background(), "receipts/venta.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/receipts/venta.pdf", url)
}
