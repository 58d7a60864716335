// Package resilience protege dependencias externas con un circuit breaker (sony/gobreaker).
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// ErrCircuitOpen el circuito está abierto y la llamada no se intentó.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

// BreakerConfig parámetros del circuito.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32        // fallos consecutivos que abren el circuito
	Timeout          time.Duration // tiempo en abierto antes de pasar a semiabierto
	MaxRequests      uint32        // llamadas permitidas en semiabierto
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "receipts"
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 1
	}
	return c
}

// CircuitBreaker envuelve gobreaker con logging.
type CircuitBreaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
	log  *logger.Logger
}

// NewCircuitBreaker crea el circuito.
func NewCircuitBreaker(cfg BreakerConfig, log *logger.Logger) *CircuitBreaker {
	cfg = cfg.withDefaults()
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker cambió de estado")
		},
	}
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(settings), name: cfg.Name, log: log.Component("breaker")}
}

// Execute corre fn a través del circuito. Con el circuito abierto devuelve ErrCircuitOpen envuelto.
func (c *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Warn().Str("breaker", c.name).Msg("llamada rechazada por circuit breaker")
		return nil, fmt.Errorf("%s: %w", c.name, ErrCircuitOpen)
	}
	return result, err
}

// State estado actual del circuito.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

var _ ports.ReceiptStore = (*ReceiptStore)(nil)

// ReceiptStore decora un ports.ReceiptStore con el circuito.
type ReceiptStore struct {
	next    ports.ReceiptStore
	breaker *CircuitBreaker
}

// NewReceiptStore envuelve next.
func NewReceiptStore(next ports.ReceiptStore, breaker *CircuitBreaker) *ReceiptStore {
	return &ReceiptStore{next: next, breaker: breaker}
}

func (s *ReceiptStore) Put(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.next.Put(ctx, objectName, contentType, data)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
