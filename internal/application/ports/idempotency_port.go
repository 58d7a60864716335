package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyLocked otra petición con la misma llave está en curso.
var ErrIdempotencyLocked = errors.New("petición con la misma Idempotency-Key en curso")

// StoredResponse respuesta guardada para repetirla ante reintentos.
type StoredResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore guarda respuestas por llave y serializa peticiones concurrentes con la misma llave.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
	// Lock devuelve ErrIdempotencyLocked si la llave ya está tomada.
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
