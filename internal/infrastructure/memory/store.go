// Package memory implementa todos los puertos de repositorio sobre mapas en memoria.
// Run serializa las transacciones con un mutex global (equivalente a bloquear todas las filas)
// y restaura una copia del estado si la función falla. Se usa en tests y en modo desarrollo.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	stock         map[entity.StockKey]entity.StockRecord
	changes       []entity.InventoryChangeEntry
	transfers     map[string]entity.TransferRequest
	sales         map[string]entity.Sale
	locations     map[string]entity.Location
	users         map[string]entity.User
	userLocations map[string][]string
	products      map[string]entity.Product
	incidents     []entity.TransportIncident
	notifications map[string]entity.ReturnNotification
}

func newState() *state {
	return &state{
		stock:         map[entity.StockKey]entity.StockRecord{},
		transfers:     map[string]entity.TransferRequest{},
		sales:         map[string]entity.Sale{},
		locations:     map[string]entity.Location{},
		users:         map[string]entity.User{},
		userLocations: map[string][]string{},
		products:      map[string]entity.Product{},
		notifications: map[string]entity.ReturnNotification{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.changes = append(c.changes, s.changes...)
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.userLocations {
		c.userLocations[k] = append([]string(nil), v...)
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.incidents = append(c.incidents, s.incidents...)
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

// Store almacén en memoria con semántica transaccional.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a la transacción. Las transacciones se serializan;
// si fn devuelve error o el contexto se cancela, el estado vuelve al snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	if err = fn(s.repos(true)); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	return repository.Repos{
		Stock:         &StockRepo{s: s, inTx: inTx},
		Changes:       &InventoryChangeRepo{s: s, inTx: inTx},
		Transfers:     &TransferRepo{s: s, inTx: inTx},
		Sales:         &SaleRepo{s: s, inTx: inTx},
		Locations:     &LocationRepo{s: s, inTx: inTx},
		Users:         &UserRepo{s: s, inTx: inTx},
		Products:      &ProductRepo{s: s, inTx: inTx},
		Incidents:     &IncidentRepo{s: s, inTx: inTx},
		Notifications: &NotificationRepo{s: s, inTx: inTx},
	}
}

// view da acceso al estado; fuera de una transacción toma el mutex.
func (s *Store) view(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
