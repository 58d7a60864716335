package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenis-ops/internal/application/directory"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
)

// DirectoryHandler ubicaciones, referencias y usuarios de la empresa.
type DirectoryHandler struct {
	uc *directory.UseCase
}

// NewDirectoryHandler construye el handler.
func NewDirectoryHandler(uc *directory.UseCase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Bodega o local"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *DirectoryHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateLocation(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *DirectoryHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.uc.ListLocations(c.Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateProduct godoc
// @Summary      Crear referencia
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos de la referencia"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *DirectoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateProduct(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProduct godoc
// @Summary      Obtener referencia
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        reference  path  string  true  "Referencia"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{reference} [get]
func (h *DirectoryHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProduct(c.Context(), ActorFrom(c), c.Params("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear usuario del directorio
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *DirectoryHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateUser(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListUsers(c.Context(), ActorFrom(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignLocation godoc
// @Summary      Asignar ubicación administrada
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del usuario"
// @Param        body  body  dto.AssignLocationRequest  true  "Ubicación"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/locations [post]
func (h *DirectoryHandler) AssignLocation(c *fiber.Ctx) error {
	var in dto.AssignLocationRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AssignLocation(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
