package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
)

// WarehouseHandler rutas del bodeguero sobre transferencias y devoluciones.
type WarehouseHandler struct {
	svc *workflow.Service
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(svc *workflow.Service) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// Pending godoc
// @Summary      Pendientes de la bodega
// @Description  Solicitudes por aceptar, entregas por despachar y devoluciones por recibir en las ubicaciones del bodeguero.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/warehouse/pending [get]
func (h *WarehouseHandler) Pending(c *fiber.Ctx) error {
	out, err := h.svc.PendingForWarehouse(c.Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Accept godoc
// @Summary      Aceptar solicitud
// @Description  Reserva el stock en origen (o confirma la reserva de cliente).
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true   "ID de la transferencia"
// @Param        body  body  dto.NotesRequest  false  "Notas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/accept [post]
func (h *WarehouseHandler) Accept(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.AcceptRequest(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la transferencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/reject [post]
func (h *WarehouseHandler) Reject(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.RejectRequest(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeliverToCourier godoc
// @Summary      Entregar al corredor
// @Description  Descuenta el stock del origen y pasa la transferencia a in_transit.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true   "ID de la transferencia"
// @Param        body  body  dto.NotesRequest  false  "Notas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/deliver-courier [post]
func (h *WarehouseHandler) DeliverToCourier(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.DeliverToCourier(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeliverToVendor godoc
// @Summary      Entregar al vendedor (auto-recogida)
// @Description  Descuenta el stock del origen. En devoluciones la entrega la hace el vendedor solicitante.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true   "ID de la transferencia"
// @Param        body  body  dto.NotesRequest  false  "Notas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/deliver-vendor [post]
func (h *WarehouseHandler) DeliverToVendor(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.DeliverToVendor(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConfirmReturnReception godoc
// @Summary      Recibir devolución
// @Description  Reingresa el stock según la condición y notifica al vendedor original.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "ID de la devolución"
// @Param        body  body  dto.ConfirmReturnReceptionRequest  true  "Condición"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/returns/{id}/reception [post]
func (h *WarehouseHandler) ConfirmReturnReception(c *fiber.Ctx) error {
	var in dto.ConfirmReturnReceptionRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.ConfirmReturnReception(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
