// seed crea una empresa de demostración: bodegas, locales, usuarios por rol, referencias y stock
// inicial (registrado en el log de cambios como ENTRY). Imprime un token JWT por usuario para
// probar la API sin el servicio de directorio.
//
// Uso: go run ./cmd/seed [-company demo-company]
// Lee la misma configuración que la API (DB_*, DATABASE_URL, JWT_SECRET).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/tenis-ops/pkg/config"
	"github.com/jhoicas/tenis-ops/pkg/jwt"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

type seedStock struct {
	location      string
	reference     string
	size          string
	inventoryType string
	quantity      int
}

func main() {
	companyID := flag.String("company", "demo-company", "ID de la empresa a poblar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	cid := *companyID
	now := time.Now()
	locations := []entity.Location{
		{ID: cid + "-bodega-norte", Name: "Bodega norte", Type: entity.LocationTypeWarehouse, Address: "Cra 15 # 80-20"},
		{ID: cid + "-bodega-sur", Name: "Bodega sur", Type: entity.LocationTypeWarehouse, Address: "Av 68 # 5-10"},
		{ID: cid + "-local-centro", Name: "Local centro", Type: entity.LocationTypeStore, Address: "Cl 19 # 7-30"},
		{ID: cid + "-local-unicentro", Name: "Local Unicentro", Type: entity.LocationTypeStore, Address: "Av 15 # 124-30"},
	}
	users := []entity.User{
		{ID: cid + "-admin", Email: "admin@" + cid + ".co", Name: "Administración", Role: entity.RoleAdmin},
		{ID: cid + "-bodeguero", Email: "bodega@" + cid + ".co", Name: "Bodeguero norte", Role: entity.RoleBodeguero, LocationID: cid + "-bodega-norte"},
		{ID: cid + "-vendedor", Email: "ventas@" + cid + ".co", Name: "Vendedor centro", Role: entity.RoleVendedor, LocationID: cid + "-local-centro"},
		{ID: cid + "-corredor", Email: "corredor@" + cid + ".co", Name: "Corredor", Role: entity.RoleCorredor},
	}
	products := []entity.Product{
		{Reference: "NK-AM90", Brand: "Nike", Model: "Air Max 90", UnitPrice: decimal.NewFromInt(549900)},
		{Reference: "AD-SS01", Brand: "Adidas", Model: "Superstar", UnitPrice: decimal.NewFromInt(429900)},
		{Reference: "NB-574", Brand: "New Balance", Model: "574", UnitPrice: decimal.NewFromInt(459900)},
	}
	stock := []seedStock{
		{cid + "-bodega-norte", "NK-AM90", "42", entity.InventoryTypePair, 12},
		{cid + "-bodega-norte", "NK-AM90", "41", entity.InventoryTypePair, 8},
		{cid + "-bodega-norte", "AD-SS01", "40", entity.InventoryTypePair, 6},
		{cid + "-bodega-norte", "NB-574", "42", entity.InventoryTypeLeftOnly, 2},
		{cid + "-bodega-sur", "NB-574", "42", entity.InventoryTypeRightOnly, 3},
		{cid + "-bodega-sur", "AD-SS01", "41", entity.InventoryTypePair, 4},
		{cid + "-local-centro", "NK-AM90", "42", entity.InventoryTypePair, 2},
		{cid + "-local-unicentro", "NK-AM90", "40", entity.InventoryTypePair, 1},
	}

	// directorio fuera de transacción: cada alta es independiente y se omite si ya existe
	dir := postgres.NewRepos(pool)
	for i := range locations {
		l := locations[i]
		l.CompanyID, l.IsActive, l.CreatedAt, l.UpdatedAt = cid, true, now, now
		existing, err := dir.Locations.GetByID(ctx, cid, l.ID)
		if err == nil && existing == nil {
			err = skipDuplicate(dir.Locations.Create(ctx, &l))
		}
		if err != nil {
			log.Fatal().Err(err).Str("location_id", l.ID).Msg("crear ubicación")
		}
	}
	for i := range users {
		u := users[i]
		u.CompanyID, u.IsActive, u.CreatedAt, u.UpdatedAt = cid, true, now, now
		existing, err := dir.Users.GetByID(ctx, cid, u.ID)
		if err == nil && existing == nil {
			err = skipDuplicate(dir.Users.Create(ctx, &u))
		}
		if err != nil {
			log.Fatal().Err(err).Str("user_id", u.ID).Msg("crear usuario")
		}
	}
	// el bodeguero también atiende la bodega sur
	if err := dir.Users.AssignLocation(ctx, cid, cid+"-bodeguero", cid+"-bodega-sur"); err != nil {
		log.Fatal().Err(err).Msg("asignar bodega sur")
	}
	for i := range products {
		p := products[i]
		p.ID, p.CompanyID, p.CreatedAt, p.UpdatedAt = cid+"-"+p.Reference, cid, now, now
		existing, err := dir.Products.GetByReference(ctx, cid, p.Reference)
		if err == nil && existing == nil {
			err = skipDuplicate(dir.Products.Create(ctx, &p))
		}
		if err != nil {
			log.Fatal().Err(err).Str("reference", p.Reference).Msg("crear referencia")
		}
	}

	ledger := inventory.NewLedger(log, nil)
	txRunner := postgres.NewTxRunner(pool)
	err = txRunner.Run(ctx, func(repos repository.Repos) error {
		for _, s := range stock {
			key := entity.StockKey{CompanyID: cid, ProductReference: s.reference, Size: s.size, LocationID: s.location, InventoryType: s.inventoryType}
			current, err := ledger.GetQuantity(ctx, repos.Stock, key)
			if err != nil {
				return err
			}
			// solo la primera corrida carga stock
			if current > 0 {
				continue
			}
			if _, err := ledger.Adjust(ctx, repos, inventory.AdjustInput{
				Key:        key,
				Delta:      s.quantity,
				ActorID:    cid + "-admin",
				ChangeType: entity.ChangeTypeEntry,
				Notes:      "carga inicial",
			}); err != nil {
				return fmt.Errorf("stock %s/%s en %s: %w", s.reference, s.size, s.location, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Str("company_id", cid).Int("locations", len(locations)).Int("stock_records", len(stock)).Msg("seed aplicado")

	if cfg.JWT.Secret == "" {
		fmt.Println("JWT_SECRET vacío: no se generan tokens")
		return
	}
	for _, u := range users {
		tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{
			UserID:     u.ID,
			CompanyID:  cid,
			Role:       u.Role,
			LocationID: u.LocationID,
		}, cfg.JWT.Issuer, 24*60)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("%-10s %s\n", u.Role, tok)
	}
}

func skipDuplicate(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}
