// Package access reúne las verificaciones de rol y de ubicación compartidas por los casos de uso.
package access

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// RequireRole devuelve OwnershipError si el rol del actor no está en roles.
func RequireRole(actor entity.Actor, roles ...string) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return domain.NewOwnershipError("rol " + actor.Role + " no autorizado para esta operación")
}

// ManagesLocation indica si el actor administra la ubicación: admin siempre, el resto si es su
// ubicación asignada o si el directorio lo tiene asignado a ella.
func ManagesLocation(ctx context.Context, users repository.UserRepository, actor entity.Actor, locationID string) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if locationID == "" {
		return false, nil
	}
	if actor.LocationID == locationID {
		return true, nil
	}
	if users == nil {
		return false, nil
	}
	ids, err := users.ManagedLocationIDs(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == locationID {
			return true, nil
		}
	}
	return false, nil
}

// RequireLocation como ManagesLocation pero devuelve OwnershipError si no la administra.
func RequireLocation(ctx context.Context, users repository.UserRepository, actor entity.Actor, locationID string) error {
	ok, err := ManagesLocation(ctx, users, actor, locationID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewOwnershipError("la ubicación no está asignada al usuario")
	}
	return nil
}

// LocationsOf ubicaciones que el actor administra (la asignada más las del directorio).
func LocationsOf(ctx context.Context, users repository.UserRepository, actor entity.Actor) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	if actor.LocationID != "" {
		out = append(out, actor.LocationID)
		seen[actor.LocationID] = true
	}
	if users == nil {
		return out, nil
	}
	ids, err := users.ManagedLocationIDs(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
