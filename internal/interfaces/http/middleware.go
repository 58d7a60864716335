package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

const (
	// HeaderIdempotencyKey cabecera con la llave de idempotencia del cliente.
	HeaderIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
	idempotencyLockTTL   = 30 * time.Second

	localInternalError = "internal_error"
)

// HTTPObserver recibe la duración de cada petición (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra cada petición con zerolog y la reporta al observer si existe.
func RequestLogger(log *logger.Logger, observer HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de Fiber escriba la respuesta antes de leer el status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		reqLog := log.WithTenant(GetCompanyID(c), GetUserID(c))
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
			if ierr, ok := c.Locals(localInternalError).(error); ok {
				ev = ev.Err(ierr)
			} else if err != nil {
				ev = ev.Err(err)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("http request")

		if observer != nil {
			observer.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		return nil
	}
}

// Idempotency repite la respuesta guardada cuando un POST llega de nuevo con la misma
// Idempotency-Key. Va después de AuthMiddleware: la llave queda acotada a empresa y usuario.
// Sin cabecera la petición pasa sin cambios; sin store el middleware no hace nada.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil || !isMutating(c.Method()) {
			return c.Next()
		}
		rawKey := c.Get(HeaderIdempotencyKey)
		if rawKey == "" {
			return c.Next()
		}
		if len(rawKey) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_KEY_INVALID", Message: "Idempotency-Key demasiado larga"})
		}
		key := GetCompanyID(c) + ":" + GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + rawKey
		fingerprint := fingerprintBody(c.Body())
		ctx := c.Context()

		done, err := replayStored(ctx, c, store, key, fingerprint)
		if err != nil || done {
			return err
		}

		release, err := store.Lock(ctx, key, idempotencyLockTTL)
		if errors.Is(err, ports.ErrIdempotencyLocked) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "hay una petición en curso con la misma Idempotency-Key"})
		}
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("idempotency lock failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_STORAGE_UNAVAILABLE", Message: "almacenamiento de idempotencia no disponible"})
		}
		defer release()

		// otra petición pudo terminar entre la lectura y el bloqueo
		done, err = replayStored(ctx, c, store, key, fingerprint)
		if err != nil || done {
			return err
		}

		if err := c.Next(); err != nil {
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			return nil
		}
		resp := &ports.StoredResponse{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Save(ctx, key, resp, ttl); err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("idempotency save failed")
		}
		return nil
	}
}

// replayStored escribe la respuesta guardada si existe. done indica que la petición ya se respondió.
func replayStored(ctx context.Context, c *fiber.Ctx, store ports.IdempotencyStore, key, fingerprint string) (done bool, err error) {
	stored, err := store.Get(ctx, key)
	if err != nil {
		return true, c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_STORAGE_UNAVAILABLE", Message: "almacenamiento de idempotencia no disponible"})
	}
	if stored == nil {
		return false, nil
	}
	if stored.Fingerprint != fingerprint {
		return true, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_PARAMETER_MISMATCH", Message: "el cuerpo difiere de la petición original con esta Idempotency-Key"})
	}
	c.Set(headerReplayed, "true")
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	return true, c.Status(stored.Status).Send(stored.Body)
}

func fingerprintBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func isMutating(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	}
	return false
}
