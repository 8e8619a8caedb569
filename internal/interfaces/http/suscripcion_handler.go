package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/application/usecase"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// SuscripcionHandler maneja el CRUD de suscripciones y los endpoints del
// ciclo de vida (transiciones, historial, evaluación, barrido).
type SuscripcionHandler struct {
	uc    *usecase.SuscripcionUseCase
	ciclo *lifecycle.Service
}

// NewSuscripcionHandler construye el handler inyectando casos de uso.
func NewSuscripcionHandler(uc *usecase.SuscripcionUseCase, ciclo *lifecycle.Service) *SuscripcionHandler {
	return &SuscripcionHandler{uc: uc, ciclo: ciclo}
}

// Create godoc
// @Summary      Contratar un plan (crear suscripción)
// @Tags         suscripciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSuscripcionRequest  true  "Datos de la suscripción"
// @Success      201   {object}  dto.SuscripcionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suscripciones [post]
func (h *SuscripcionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSuscripcionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.EmisorID == "" || in.PlanID == "" || in.FechaInicio == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "emisor_id, plan_id y fecha_inicio son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), suscripcion.Rol(GetRol(c)), in)
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener suscripción (con estado re-derivado)
// @Tags         suscripciones
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.SuscripcionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id} [get]
func (h *SuscripcionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "suscripción no encontrada"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar suscripción (solo si nunca arrancó)
// @Tags         suscripciones
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id} [delete]
func (h *SuscripcionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapUseCaseError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AumentarComprobantes godoc
// @Summary      Aumentar el cupo de comprobantes
// @Tags         suscripciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la suscripción"
// @Param        body  body  dto.AumentarComprobantesRequest  true  "Incremento"
// @Success      200   {object}  dto.SuscripcionResponse
// @Router       /api/suscripciones/{id}/comprobantes [post]
func (h *SuscripcionHandler) AumentarComprobantes(c *fiber.Ctx) error {
	var in dto.AumentarComprobantesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AumentarComprobantes(c.Context(), c.Params("id"), in.Incremento)
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// ConsumirComprobante godoc
// @Summary      Registrar consumo de un comprobante
// @Tags         suscripciones
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.SuscripcionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id}/consumo [post]
func (h *SuscripcionHandler) ConsumirComprobante(c *fiber.Ctx) error {
	out, err := h.uc.ConsumirComprobante(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// CambiarPlan godoc
// @Summary      Cambiar el plan de la suscripción
// @Tags         suscripciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la suscripción"
// @Param        body  body  dto.CambiarPlanRequest  true  "Plan nuevo"
// @Success      200   {object}  dto.SuscripcionResponse
// @Router       /api/suscripciones/{id}/plan [post]
func (h *SuscripcionHandler) CambiarPlan(c *fiber.Ctx) error {
	var in dto.CambiarPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CambiarPlan(c.Context(), c.Params("id"), in.PlanID)
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// ConfirmarTransaccion godoc
// @Summary      Confirmar la transacción comercial
// @Tags         suscripciones
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.SuscripcionResponse
// @Router       /api/suscripciones/{id}/confirmar [post]
func (h *SuscripcionHandler) ConfirmarTransaccion(c *fiber.Ctx) error {
	out, err := h.uc.ConfirmarTransaccion(c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// RegistrarComision godoc
// @Summary      Registrar comisión del vendedor
// @Tags         suscripciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la suscripción"
// @Param        body  body  dto.ComisionRequest  true  "Comisión"
// @Success      200   {object}  dto.SuscripcionResponse
// @Router       /api/suscripciones/{id}/comision [post]
func (h *SuscripcionHandler) RegistrarComision(c *fiber.Ctx) error {
	var in dto.ComisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegistrarComision(c.Params("id"), in)
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// Transicion godoc
// @Summary      Solicitar transición manual de estado
// @Tags         ciclo-de-vida
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la suscripción"
// @Param        body  body  dto.TransicionRequest  true  "Estado destino y motivo"
// @Success      200   {object}  dto.TransicionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.TransicionResponse
// @Router       /api/suscripciones/{id}/transicion [post]
func (h *SuscripcionHandler) Transicion(c *fiber.Ctx) error {
	var in dto.TransicionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ciclo.TransicionManual(c.Context(), lifecycle.SolicitudTransicion{
		SuscripcionID: c.Params("id"),
		Destino:       suscripcion.Estado(in.Destino),
		ActorID:       GetUserID(c),
		ActorRol:      suscripcion.Rol(GetRol(c)),
		Motivo:        in.Motivo,
		ClientIP:      c.IP(),
		ClientAgent:   c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return mapUseCaseError(c, err)
	}
	out := dto.TransicionResponse{Aceptada: res.Aceptada, Motivo: res.Motivo, Estado: string(res.Estado)}
	if !res.Aceptada {
		// Rechazo de negocio: esperado y frecuente, nunca un 500.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
	}
	return c.JSON(out)
}

// TransicionesDisponibles godoc
// @Summary      Transiciones manuales posibles para el rol actual
// @Tags         ciclo-de-vida
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.TransicionesDisponiblesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id}/transiciones [get]
func (h *SuscripcionHandler) TransicionesDisponibles(c *fiber.Ctx) error {
	sus, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	if sus == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "suscripción no encontrada"})
	}
	destinos := h.ciclo.TransicionesDisponibles(suscripcion.Estado(sus.Estado), suscripcion.Rol(GetRol(c)))
	out := dto.TransicionesDisponiblesResponse{Estado: sus.Estado}
	for _, d := range destinos {
		out.Destinos = append(out.Destinos, string(d))
	}
	return c.JSON(out)
}

// Historial godoc
// @Summary      Historial de transiciones (auditoría)
// @Tags         ciclo-de-vida
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.HistorialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id}/historial [get]
func (h *SuscripcionHandler) Historial(c *fiber.Ctx) error {
	lista, err := h.ciclo.Historial(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	out := dto.HistorialResponse{Items: make([]dto.AuditoriaResponse, 0, len(lista))}
	for _, a := range lista {
		out.Items = append(out.Items, dto.AuditoriaResponse{
			ID:             a.ID,
			SuscripcionID:  a.SuscripcionID,
			EstadoAnterior: string(a.EstadoAnterior),
			EstadoNuevo:    string(a.EstadoNuevo),
			Tipo:           string(a.Tipo),
			Motivo:         a.Motivo,
			ActorID:        a.ActorID,
			ActorRol:       a.ActorRol,
			ClientIP:       a.ClientIP,
			ClientAgent:    a.ClientAgent,
			CreatedAt:      a.CreatedAt,
		})
	}
	return c.JSON(out)
}

// Evaluar godoc
// @Summary      Re-derivar el estado de la suscripción
// @Tags         ciclo-de-vida
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.EvaluacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/{id}/evaluar [post]
func (h *SuscripcionHandler) Evaluar(c *fiber.Ctx) error {
	res, err := h.ciclo.EvaluarAutomatica(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(dto.EvaluacionResponse{Estado: string(res.Estado), Cambio: res.Cambio})
}

// Barrido godoc
// @Summary      Barrido de evaluación sobre las suscripciones del emisor
// @Tags         ciclo-de-vida
// @Produce      json
// @Param        id   path  string  true  "ID del emisor"
// @Success      200  {object}  dto.BarridoResponse
// @Router       /api/emisores/{id}/barrido [post]
func (h *SuscripcionHandler) Barrido(c *fiber.Ctx) error {
	res, err := h.ciclo.BarridoEmisor(c.Context(), c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(dto.BarridoResponse{Evaluadas: res.Evaluadas, Cambiadas: res.Cambiadas, Fallidas: res.Fallidas})
}

// ListByEmisor godoc
// @Summary      Listar suscripciones de un emisor
// @Tags         suscripciones
// @Produce      json
// @Param        id   path  string  true  "ID del emisor"
// @Success      200  {array}  dto.SuscripcionResponse
// @Router       /api/emisores/{id}/suscripciones [get]
func (h *SuscripcionHandler) ListByEmisor(c *fiber.Ctx) error {
	out, err := h.uc.ListByEmisor(c.Params("id"))
	if err != nil {
		return mapUseCaseError(c, err)
	}
	return c.JSON(out)
}

// mapUseCaseError traduce errores de dominio a códigos HTTP.
func mapUseCaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
