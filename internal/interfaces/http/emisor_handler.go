package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/application/usecase"
	"github.com/facturaec/admin-api/internal/domain"
)

// EmisorHandler maneja las peticiones HTTP para el recurso Emisor.
type EmisorHandler struct {
	uc *usecase.EmisorUseCase
}

// NewEmisorHandler construye el handler inyectando el caso de uso.
func NewEmisorHandler(uc *usecase.EmisorUseCase) *EmisorHandler {
	return &EmisorHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un emisor
// @Tags         emisores
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmisorRequest  true  "Datos del emisor"
// @Success      201   {object}  dto.EmisorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/emisores [post]
func (h *EmisorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEmisorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.RUC == "" || in.RazonSocial == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ruc y razon_social son requeridos"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "emisor con ese RUC ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener emisor por ID
// @Tags         emisores
// @Produce      json
// @Param        id   path  string  true  "ID del emisor"
// @Success      200  {object}  dto.EmisorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/emisores/{id} [get]
func (h *EmisorHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "emisor no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar emisores
// @Tags         emisores
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.EmisorListResponse
// @Router       /api/emisores [get]
func (h *EmisorHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
