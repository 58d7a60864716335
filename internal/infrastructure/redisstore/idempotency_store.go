package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	responsePrefix = "idem:resp:"
	lockPrefix     = "idem:lock:"
)

// IdempotencyStore respuestas en claves con TTL y bloqueo por llave con redislock.
type IdempotencyStore struct {
	rdb    redis.UniversalClient
	locker *redislock.Client
}

// NewIdempotencyStore construye el almacén sobre un cliente existente.
func NewIdempotencyStore(rdb redis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, locker: redislock.New(rdb)}
}

// Get nil si la llave no tiene respuesta guardada.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	raw, err := s.rdb.Get(ctx, responsePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var resp ports.StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key string, resp *ports.StoredResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode stored response: %w", err)
	}
	if err := s.rdb.Set(ctx, responsePrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Lock sin reintentos: una segunda petición con la misma llave falla de inmediato.
func (s *IdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := s.locker.Obtain(ctx, lockPrefix+key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ports.ErrIdempotencyLocked
		}
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
