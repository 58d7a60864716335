// Package transfer implementa la máquina de estados de traslados y devoluciones.
// Cada transición corre en una sola transacción: bloquea la fila de la solicitud, verifica el
// estado, aplica el ajuste de inventario que corresponda y persiste con actualización condicional.
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// Tiempos estimados por defecto (minutos) según prioridad.
const (
	etaHighPriority   = 30
	etaNormalPriority = 45
)

// Config parámetros de la máquina de estados.
type Config struct {
	// ClientReservationMinutes vigencia informativa de la reserva para solicitudes con propósito cliente.
	ClientReservationMinutes int
}

// Guard verificación adicional de acceso evaluada con la fila bloqueada, antes de aplicar la
// transición. La usan los orquestadores para validar la relación actor-ubicación.
type Guard func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error

// Machine máquina de estados de TransferRequest.
type Machine struct {
	txRunner inventory.TxRunner
	engine   *inventory.Engine
	log      *logger.Logger
	metrics  ports.MetricsRecorder
	cfg      Config
	now      func() time.Time
}

// NewMachine construye la máquina. metrics puede ser nil.
func NewMachine(txRunner inventory.TxRunner, engine *inventory.Engine, log *logger.Logger, metrics ports.MetricsRecorder, cfg Config) *Machine {
	if cfg.ClientReservationMinutes <= 0 {
		cfg.ClientReservationMinutes = 45
	}
	return &Machine{
		txRunner: txRunner,
		engine:   engine,
		log:      log.Component("transfer"),
		metrics:  ports.OrNoop(metrics),
		cfg:      cfg,
		now:      time.Now,
	}
}

// step describe una transición sobre una solicitud existente.
type step struct {
	event string
	guard Guard
	// before corre antes de verificar el estado (ej. detectar que otro corredor ganó la carrera).
	before func(t *entity.TransferRequest) error
	// apply muta t y ejecuta los efectos (ajustes de inventario, registros asociados).
	apply func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error
	claim bool
}

// transition ejecuta un paso dentro de una transacción. Cualquier error revierte todo.
func (m *Machine) transition(ctx context.Context, actor entity.Actor, id string, s step) (*entity.TransferRequest, error) {
	var out *entity.TransferRequest
	err := m.txRunner.Run(ctx, func(repos repository.Repos) error {
		t, err := repos.Transfers.GetForUpdate(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if s.before != nil {
			if err := s.before(t); err != nil {
				return err
			}
		}
		prev := t.Status
		if !t.Allows(s.event) {
			return &domain.InvalidTransitionError{TransferID: t.ID, Current: t.Status, Attempted: s.event}
		}
		if s.guard != nil {
			if err := s.guard(ctx, repos, t); err != nil {
				return err
			}
		}
		if err := s.apply(ctx, repos, t); err != nil {
			return err
		}
		t.UpdatedAt = m.now()
		if s.claim {
			err = repos.Transfers.ClaimCourier(ctx, t)
		} else {
			err = repos.Transfers.Update(ctx, t, prev)
		}
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		m.recordFailure(s.event, id, actor, err)
		return nil, err
	}
	m.metrics.TransferTransition(s.event, out.Status)
	m.log.WithTenant(out.CompanyID, actor.UserID).Info().
		Str("event", s.event).
		Str("transfer_id", out.ID).
		Str("status", out.Status).
		Msg("transición de transferencia")
	return out, nil
}

func (m *Machine) recordFailure(event, id string, actor entity.Actor, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidTransition):
		reason = "invalid_transition"
	case errors.Is(err, domain.ErrForbidden):
		reason = "forbidden"
	case errors.Is(err, domain.ErrConflict):
		reason = "conflict"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		reason = "invalid_input"
	}
	m.metrics.TransferRejected(event, reason)
	ev := m.log.Warn()
	if reason == "internal" {
		ev = m.log.Error()
	}
	ev.Err(err).
		Str("event", event).
		Str("transfer_id", id).
		Str("company_id", actor.CompanyID).
		Str("actor_id", actor.UserID).
		Str("reason", reason).
		Msg("transición rechazada")
}

func (m *Machine) timestamp() *time.Time {
	now := m.now()
	return &now
}

func requireRequester(t *entity.TransferRequest, actor entity.Actor) error {
	if t.RequesterID != actor.UserID {
		return domain.NewOwnershipError("solo el solicitante puede realizar esta acción")
	}
	return nil
}

func requireCourier(t *entity.TransferRequest, actor entity.Actor) error {
	if t.CourierID == "" || t.CourierID != actor.UserID {
		return domain.NewOwnershipError("la transferencia no está asignada a este corredor")
	}
	return nil
}

func invalid(t *entity.TransferRequest, event string) error {
	return &domain.InvalidTransitionError{TransferID: t.ID, Current: t.Status, Attempted: event}
}

// sourceKey / destinationKey llaves de stock de la solicitud en origen y destino.
func sourceKey(t *entity.TransferRequest) entity.StockKey {
	return entity.StockKey{
		CompanyID:        t.CompanyID,
		ProductReference: t.ProductReference,
		Size:             t.Size,
		LocationID:       t.SourceLocationID,
		InventoryType:    t.InventoryType,
	}
}

func destinationKey(t *entity.TransferRequest) entity.StockKey {
	k := sourceKey(t)
	k.LocationID = t.DestinationLocationID
	return k
}
