package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y consultas de stock (protegido).
type InventoryHandler struct {
	uc    *inventory.RegisterMovementUseCase
	query *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRY suma unidades; ADJUSTMENT aplica un delta con signo. Nunca deja stock negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "location_id, reference, size, inventory_type, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetStock godoc
// @Summary      Cantidad en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        reference       query  string  true   "Referencia"
// @Param        size            query  string  true   "Talla"
// @Param        location_id     query  string  true   "Ubicación"
// @Param        inventory_type  query  string  false  "pair | left_only | right_only"  default(pair)
// @Success      200  {object}  dto.QuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.query.GetQuantity(c.Context(), GetCompanyID(c), q.Reference, q.Size, q.LocationID, q.InventoryType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetDistribution godoc
// @Summary      Distribución por ubicación
// @Description  Pares, pies sueltos y pares formables de una referencia/talla en todas las ubicaciones.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        reference  query  string  true  "Referencia"
// @Param        size       query  string  true  "Talla"
// @Success      200  {object}  dto.DistributionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/distribution [get]
func (h *InventoryHandler) GetDistribution(c *fiber.Ctx) error {
	var q dto.DistributionQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.query.GetDistribution(c.Context(), GetCompanyID(c), q.Reference, q.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListChanges godoc
// @Summary      Log de cambios de inventario
// @Description  Por reference_id (transferencia o venta) o por location_id.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        reference_id  query  string  false  "ID de transferencia o venta"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.InventoryChangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/changes [get]
func (h *InventoryHandler) ListChanges(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.query.ListChanges(c.Context(), GetCompanyID(c), c.Query("reference_id"), c.Query("location_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
