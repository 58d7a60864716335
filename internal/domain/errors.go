package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// Shortage describe un faltante concreto de stock (referencia, talla, tipo y ubicación).
type Shortage struct {
	ProductReference string `json:"product_reference"`
	Size             string `json:"size"`
	InventoryType    string `json:"inventory_type"`
	LocationID       string `json:"location_id"`
	Requested        int    `json:"requested"`
	Available        int    `json:"available"`
}

// InsufficientStockError lista todos los ítems que no alcanzan. Envuelve ErrInsufficientStock.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s talla %s (%s): solicitado %d, disponible %d",
			s.ProductReference, s.Size, s.InventoryType, s.Requested, s.Available))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError indica el estado actual y la transición intentada.
type InvalidTransitionError struct {
	TransferID string
	Current    string
	Attempted  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transferencia %s en estado %q no admite %q", e.TransferID, e.Current, e.Attempted)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// OwnershipError el actor no es la parte autorizada para la operación.
// El mensaje nunca revela datos de otra empresa.
type OwnershipError struct {
	Reason string
}

func (e *OwnershipError) Error() string { return "acceso denegado: " + e.Reason }

func (e *OwnershipError) Unwrap() error { return ErrForbidden }

// ConflictError carrera detectada (ej. dos corredores reclamando la misma transferencia).
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto en %s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewOwnershipError atajo para construir un OwnershipError.
func NewOwnershipError(reason string) error { return &OwnershipError{Reason: reason} }

// NewConflictError atajo para construir un ConflictError.
func NewConflictError(resource, reason string) error {
	return &ConflictError{Resource: resource, Reason: reason}
}
