package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/directory"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/application/sales"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workflow         *workflow.Service
	Sales            *sales.SaleUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Query            *inventory.QueryUseCase
	Directory        *directory.UseCase
	Idempotency      ports.IdempotencyStore // nil = sin idempotencia
	IdempotencyTTL   time.Duration
	Log              *logger.Logger
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL, log)

	vendorOrAdmin := RequireRole(entity.RoleVendedor, entity.RoleAdmin)
	keeperOrAdmin := RequireRole(entity.RoleBodeguero, entity.RoleAdmin)
	courierOnly := RequireRole(entity.RoleCorredor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Transferencias (solicitante y consulta común)
	transferHandler := NewTransferHandler(deps.Workflow)
	transfers := protected.Group("/transfers")
	transfers.Post("/", vendorOrAdmin, idem, transferHandler.Create)
	transfers.Get("/mine", transferHandler.Mine)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Get("/:id/incidents", transferHandler.Incidents)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Post("/:id/reception", transferHandler.ConfirmReception)
	transfers.Post("/:id/returns", idem, transferHandler.CreateReturn)

	notifications := protected.Group("/notifications", RequireRole(entity.RoleVendedor))
	notifications.Get("/returns", transferHandler.Notifications)
	notifications.Post("/returns/:id/read", transferHandler.MarkNotificationRead)

	// Bodega
	warehouseHandler := NewWarehouseHandler(deps.Workflow)
	warehouse := protected.Group("/warehouse")
	warehouse.Get("/pending", keeperOrAdmin, warehouseHandler.Pending)
	warehouse.Post("/transfers/:id/accept", keeperOrAdmin, warehouseHandler.Accept)
	warehouse.Post("/transfers/:id/reject", keeperOrAdmin, warehouseHandler.Reject)
	// en devoluciones quien entrega al corredor es el vendedor que devuelve
	// en devoluciones entrega el vendedor que la pidió
	sender := RequireRole(entity.RoleBodeguero, entity.RoleAdmin, entity.RoleVendedor)
	warehouse.Post("/transfers/:id/deliver-courier", sender, warehouseHandler.DeliverToCourier)
	warehouse.Post("/transfers/:id/deliver-vendor", sender, warehouseHandler.DeliverToVendor)
	warehouse.Post("/returns/:id/reception", keeperOrAdmin, warehouseHandler.ConfirmReturnReception)

	// Corredor
	courierHandler := NewCourierHandler(deps.Workflow)
	courier := protected.Group("/courier", courierOnly)
	courier.Get("/available", courierHandler.Available)
	courier.Get("/history", courierHandler.History)
	courier.Post("/transfers/:id/assign", courierHandler.Assign)
	courier.Post("/transfers/:id/pickup", courierHandler.Pickup)
	courier.Post("/transfers/:id/delivery", courierHandler.Delivery)
	courier.Post("/transfers/:id/incidents", courierHandler.ReportIncident)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", vendorOrAdmin, idem, saleHandler.Create)
	salesGroup.Post("/:id/confirm", keeperOrAdmin, saleHandler.Confirm)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Query)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", keeperOrAdmin, idem, inventoryHandler.RegisterMovement)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/distribution", inventoryHandler.GetDistribution)
	invGroup.Get("/changes", inventoryHandler.ListChanges)

	// Directorio
	directoryHandler := NewDirectoryHandler(deps.Directory)
	protected.Post("/locations", adminOnly, directoryHandler.CreateLocation)
	protected.Get("/locations", directoryHandler.ListLocations)
	protected.Post("/products", keeperOrAdmin, directoryHandler.CreateProduct)
	protected.Get("/products/:reference", directoryHandler.GetProduct)
	protected.Post("/users", adminOnly, directoryHandler.CreateUser)
	protected.Get("/users", adminOnly, directoryHandler.ListUsers)
	protected.Post("/users/:id/locations", adminOnly, directoryHandler.AssignLocation)
}
