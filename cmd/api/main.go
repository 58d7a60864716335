// @title           Tenis Ops API
// @version         1.0
// @description     Inventario de calzado por par y pie suelto, transferencias entre bodegas y locales, y ventas.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/tenis-ops/docs"
	"github.com/jhoicas/tenis-ops/internal/application/directory"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/application/sales"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/metrics"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/objectstore"
	infrapdf "github.com/jhoicas/tenis-ops/internal/infrastructure/pdf"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/redisstore"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/resilience"
	httpRouter "github.com/jhoicas/tenis-ops/internal/interfaces/http"
	"github.com/jhoicas/tenis-ops/pkg/config"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o almacén en memoria
	var (
		txRunner inventory.TxRunner
		repos    repository.Repos
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		st := memory.NewStore()
		txRunner = st
		repos = st.Repos()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
	}

	var recorder ports.MetricsRecorder = ports.NoopMetrics{}
	var httpObserver httpRouter.HTTPObserver
	var prom *metrics.Metrics
	if cfg.Metrics.Enabled {
		prom = metrics.New()
		recorder = prom
		httpObserver = prom
	}

	ledger := inventory.NewLedger(log, recorder)
	engine := inventory.NewEngine(ledger, log, recorder)
	machine := transfer.NewMachine(txRunner, engine, log, recorder, transfer.Config{
		ClientReservationMinutes: cfg.Transfers.ClientReservationMinutes,
	})
	workflowSvc := workflow.NewService(machine, repos.Users, repos.Locations)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, engine, repos.Products, repos.Locations, repos.Users, log)
	queryUC := inventory.NewQueryUseCase(ledger, repos.Stock, repos.Changes, repos.Locations)
	directoryUC := directory.NewUseCase(repos, log)

	// Comprobantes: PDF con maroto, subida a GCS detrás de un circuit breaker
	renderer := infrapdf.NewReceiptRenderer()
	var receiptStore ports.ReceiptStore
	if cfg.Receipts.Bucket != "" {
		gcs, err := objectstore.NewGCSReceiptStore(ctx, cfg.Receipts)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Cloud Storage")
		}
		defer gcs.Close()
		breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
			Name:             "receipts-gcs",
			FailureThreshold: uint32(cfg.Receipts.BreakerMaxFailures),
			Timeout:          time.Duration(cfg.Receipts.BreakerOpenSeconds) * time.Second,
		}, log)
		receiptStore = resilience.NewReceiptStore(gcs, breaker)
	} else {
		log.Warn().Msg("RECEIPTS_BUCKET vacío: las ventas no guardan comprobantes")
	}
	saleUC := sales.NewSaleUseCase(txRunner, engine, renderer, receiptStore, log, recorder)

	// Idempotencia de escrituras con Redis
	var idempotency ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 << 20, // comprobantes en base64
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, httpObserver))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tenis Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if prom != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(prom.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workflow:         workflowSvc,
		Sales:            saleUC,
		RegisterMovement: registerMovementUC,
		Query:            queryUC,
		Directory:        directoryUC,
		Idempotency:      idempotency,
		IdempotencyTTL:   time.Duration(cfg.Redis.IdempotencyTTL) * time.Hour,
		Log:              log,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
