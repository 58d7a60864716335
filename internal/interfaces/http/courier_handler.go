package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
)

// CourierHandler rutas del corredor.
type CourierHandler struct {
	svc *workflow.Service
}

// NewCourierHandler construye el handler.
func NewCourierHandler(svc *workflow.Service) *CourierHandler {
	return &CourierHandler{svc: svc}
}

// Available godoc
// @Summary      Transferencias disponibles
// @Description  Aceptadas sin corredor y con recogida por corredor, más las asignadas al llamador.
// @Tags         courier
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/courier/available [get]
func (h *CourierHandler) Available(c *fiber.Ctx) error {
	out, err := h.svc.AvailableForCourier(c.Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Tomar transferencia
// @Description  Solo un corredor puede tomarla; el segundo recibe 409.
// @Tags         courier
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la transferencia"
// @Param        body  body  dto.AssignCourierRequest  false "Minutos estimados"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/courier/transfers/{id}/assign [post]
func (h *CourierHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignCourierRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.AcceptAsCourier(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pickup godoc
// @Summary      Confirmar recogida
// @Tags         courier
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true   "ID de la transferencia"
// @Param        body  body  dto.NotesRequest  false  "Notas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/courier/transfers/{id}/pickup [post]
func (h *CourierHandler) Pickup(c *fiber.Ctx) error {
	var in dto.NotesRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.ConfirmPickup(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delivery godoc
// @Summary      Confirmar entrega
// @Description  success=false deja la transferencia en delivery_failed.
// @Tags         courier
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la transferencia"
// @Param        body  body  dto.ConfirmDeliveryRequest  true  "Resultado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/courier/transfers/{id}/delivery [post]
func (h *CourierHandler) Delivery(c *fiber.Ctx) error {
	var in dto.ConfirmDeliveryRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.ConfirmDelivery(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReportIncident godoc
// @Summary      Reportar novedad de transporte
// @Tags         courier
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la transferencia"
// @Param        body  body  dto.ReportIncidentRequest  true  "Novedad"
// @Success      201  {object}  dto.IncidentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/courier/transfers/{id}/incidents [post]
func (h *CourierHandler) ReportIncident(c *fiber.Ctx) error {
	var in dto.ReportIncidentRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.ReportIncident(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial del corredor
// @Tags         courier
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/courier/history [get]
func (h *CourierHandler) History(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.CourierHistory(c.Context(), ActorFrom(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
