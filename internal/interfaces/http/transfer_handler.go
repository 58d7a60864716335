package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
)

// TransferHandler rutas del solicitante (vendedor) y consulta común de transferencias.
type TransferHandler struct {
	svc *workflow.Service
}

// NewTransferHandler construye el handler.
func NewTransferHandler(svc *workflow.Service) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// Create godoc
// @Summary      Solicitar transferencia
// @Description  Crea la solicitud en pending. Si purpose es cliente reserva el stock en origen.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "Llave de idempotencia"
// @Param        body             body    dto.CreateTransferRequest  true   "Datos de la solicitud"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.CreateTransfer(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine godoc
// @Summary      Mis transferencias
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers/mine [get]
func (h *TransferHandler) Mine(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.MyTransfers(c.Context(), ActorFrom(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener transferencia
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Incidents godoc
// @Summary      Novedades de transporte de una transferencia
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {array}   dto.IncidentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/incidents [get]
func (h *TransferHandler) Incidents(c *fiber.Ctx) error {
	out, err := h.svc.Incidents(c.Context(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar transferencia
// @Description  Solo el solicitante, antes de la recogida. Libera la reserva si la había.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la transferencia"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.CancelTransfer(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConfirmReception godoc
// @Summary      Confirmar recepción
// @Description  Suma el stock en destino y, si el tipo es pie suelto, intenta formar pares.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la transferencia"
// @Param        body  body  dto.ConfirmReceptionRequest  true  "Cantidad y estado recibidos"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reception [post]
func (h *TransferHandler) ConfirmReception(c *fiber.Ctx) error {
	var in dto.ConfirmReceptionRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.ConfirmReception(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateReturn godoc
// @Summary      Devolver transferencia completada
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la transferencia original"
// @Param        body  body  dto.CreateReturnRequest  true  "Motivo y cantidad"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/returns [post]
func (h *TransferHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.CreateReturn(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Notifications godoc
// @Summary      Avisos de devoluciones recibidas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídos"
// @Success      200  {array}  dto.ReturnNotificationResponse
// @Router       /api/notifications/returns [get]
func (h *TransferHandler) Notifications(c *fiber.Ctx) error {
	out, err := h.svc.Notifications(c.Context(), ActorFrom(c), c.QueryBool("unread", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkNotificationRead godoc
// @Summary      Marcar aviso como leído
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del aviso"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/returns/{id}/read [post]
func (h *TransferHandler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.svc.MarkNotificationRead(c.Context(), ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "aviso marcado como leído"})
}

// pageFrom lee limit/offset con valores por defecto.
func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, &bodyError{msg: "parámetros de paginación inválidos"}
	}
	page.DefaultPage()
	return page, validateStruct(&page)
}
