package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// SuscripcionUseCase es la capa CRUD colaboradora del ciclo de vida: crea
// suscripciones, aumenta cupo, cambia plan y registra consumo. Nunca escribe
// el estado directamente; toda mutación de estado pasa por el servicio de
// ciclo de vida (aquí, vía re-derivación tras cada cambio relevante).
type SuscripcionUseCase struct {
	repo       repository.SuscripcionRepository
	planRepo   repository.PlanRepository
	emisorRepo repository.EmisorRepository
	ciclo      *lifecycle.Service
	reloj      lifecycle.Reloj
}

// NewSuscripcionUseCase construye el caso de uso.
func NewSuscripcionUseCase(repo repository.SuscripcionRepository, planRepo repository.PlanRepository, emisorRepo repository.EmisorRepository, ciclo *lifecycle.Service, reloj lifecycle.Reloj) *SuscripcionUseCase {
	return &SuscripcionUseCase{repo: repo, planRepo: planRepo, emisorRepo: emisorRepo, ciclo: ciclo, reloj: reloj}
}

// Create contrata un plan para un emisor. El estado inicial depende del actor
// y de la fecha de inicio: futura → PROGRAMADO; de otro modo VIGENTE si el
// actor es SUPERADMIN/ADMIN y PENDIENTE para el resto.
func (uc *SuscripcionUseCase) Create(ctx context.Context, actorRol suscripcion.Rol, in dto.CreateSuscripcionRequest) (*dto.SuscripcionResponse, error) {
	emisor, err := uc.emisorRepo.GetByID(in.EmisorID)
	if err != nil {
		return nil, err
	}
	if emisor == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.planRepo.GetByID(in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	inicio, err := time.Parse("2006-01-02", in.FechaInicio)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	hoy := uc.reloj()
	estado := suscripcion.EstadoPendiente
	if inicio.After(hoy) {
		estado = suscripcion.EstadoProgramado
	} else if actorRol == suscripcion.RolSuperAdmin || actorRol == suscripcion.RolAdmin {
		estado = suscripcion.EstadoVigente
	}

	now := time.Now()
	sus := &entity.Suscripcion{
		ID:                    uuid.New().String(),
		EmisorID:              in.EmisorID,
		PlanID:                in.PlanID,
		FechaInicio:           inicio,
		FechaFin:              suscripcion.SumarPeriodo(inicio, plan.Periodo),
		ComprobantesAsignados: plan.ComprobantesIncluidos,
		Estado:                estado,
		EstadoTransaccion:     suscripcion.TransaccionPendiente,
		ComisionEstado:        entity.ComisionPendiente,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(sus); err != nil {
		return nil, err
	}
	return toSuscripcionResponse(sus), nil
}

// GetByID obtiene una suscripción. Evalúa oportunistamente la derivación
// automática antes de leer, para que el estado devuelto sea el natural.
func (uc *SuscripcionUseCase) GetByID(ctx context.Context, id string) (*dto.SuscripcionResponse, error) {
	if _, err := uc.ciclo.EvaluarAutomatica(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toSuscripcionResponse(sus), nil
}

// ListByEmisor lista las suscripciones de un emisor.
func (uc *SuscripcionUseCase) ListByEmisor(emisorID string) ([]dto.SuscripcionResponse, error) {
	list, err := uc.repo.ListByEmisor(emisorID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SuscripcionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSuscripcionResponse(s))
	}
	return items, nil
}

// AumentarComprobantes sube el cupo asignado (solo puede crecer) y re-deriva:
// un aumento puede sacar a la suscripción de SIN_COMPROBANTES o
// POCOS_COMPROBANTES por la vía automática.
func (uc *SuscripcionUseCase) AumentarComprobantes(ctx context.Context, id string, incremento int) (*dto.SuscripcionResponse, error) {
	if incremento <= 0 {
		return nil, domain.ErrInvalidInput
	}
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	sus.ComprobantesAsignados += incremento
	sus.UpdatedAt = time.Now()
	if err := uc.repo.Update(sus); err != nil {
		return nil, err
	}
	return uc.releerTrasEvaluar(ctx, id)
}

// ConsumirComprobante registra el consumo de un comprobante (lo invoca la
// capa de emisión, excluida de este backend) y re-deriva el estado.
func (uc *SuscripcionUseCase) ConsumirComprobante(ctx context.Context, id string) (*dto.SuscripcionResponse, error) {
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	if sus.ComprobantesRestantes() <= 0 {
		return nil, domain.ErrConflict
	}
	sus.ComprobantesUsados++
	sus.UpdatedAt = time.Now()
	if err := uc.repo.Update(sus); err != nil {
		return nil, err
	}
	return uc.releerTrasEvaluar(ctx, id)
}

// CambiarPlan cambia el plan: recalcula la fecha de fin con el periodo del
// plan nuevo y nunca reduce el cupo asignado. Luego re-deriva.
func (uc *SuscripcionUseCase) CambiarPlan(ctx context.Context, id, planID string) (*dto.SuscripcionResponse, error) {
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.planRepo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	sus.PlanID = planID
	sus.FechaFin = suscripcion.SumarPeriodo(sus.FechaInicio, plan.Periodo)
	if plan.ComprobantesIncluidos > sus.ComprobantesAsignados {
		sus.ComprobantesAsignados = plan.ComprobantesIncluidos
	}
	sus.UpdatedAt = time.Now()
	if err := uc.repo.Update(sus); err != nil {
		return nil, err
	}
	return uc.releerTrasEvaluar(ctx, id)
}

// ConfirmarTransaccion marca la transacción comercial como confirmada.
func (uc *SuscripcionUseCase) ConfirmarTransaccion(id string) (*dto.SuscripcionResponse, error) {
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	sus.EstadoTransaccion = suscripcion.TransaccionConfirmada
	sus.UpdatedAt = time.Now()
	if err := uc.repo.Update(sus); err != nil {
		return nil, err
	}
	return toSuscripcionResponse(sus), nil
}

// RegistrarComision guarda los campos de comisión del vendedor (auditoría a
// nivel de campo; no toca la máquina de estados).
func (uc *SuscripcionUseCase) RegistrarComision(id string, in dto.ComisionRequest) (*dto.SuscripcionResponse, error) {
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	monto, err := decimal.NewFromString(in.Monto)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	sus.ComisionEstado = in.Estado
	sus.ComisionMonto = monto
	sus.ComisionRecibo = in.Recibo
	sus.UpdatedAt = time.Now()
	if err := uc.repo.Update(sus); err != nil {
		return nil, err
	}
	return toSuscripcionResponse(sus), nil
}

// Delete borra físicamente la suscripción solo si nunca arrancó: PENDIENTE o
// PROGRAMADO, sin comprobantes emitidos y con la transacción sin confirmar.
func (uc *SuscripcionUseCase) Delete(id string) error {
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sus == nil {
		return domain.ErrNotFound
	}
	if !sus.EsEliminable() {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func (uc *SuscripcionUseCase) releerTrasEvaluar(ctx context.Context, id string) (*dto.SuscripcionResponse, error) {
	if _, err := uc.ciclo.EvaluarAutomatica(ctx, id); err != nil {
		return nil, err
	}
	sus, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toSuscripcionResponse(sus), nil
}

func toSuscripcionResponse(s *entity.Suscripcion) *dto.SuscripcionResponse {
	if s == nil {
		return nil
	}
	out := &dto.SuscripcionResponse{
		ID:                    s.ID,
		EmisorID:              s.EmisorID,
		PlanID:                s.PlanID,
		FechaInicio:           s.FechaInicio,
		FechaFin:              s.FechaFin,
		ComprobantesAsignados: s.ComprobantesAsignados,
		ComprobantesUsados:    s.ComprobantesUsados,
		ComprobantesRestantes: s.ComprobantesRestantes(),
		Estado:                string(s.Estado),
		EstadoTransaccion:     s.EstadoTransaccion,
		ComisionEstado:        s.ComisionEstado,
		ComisionRecibo:        s.ComisionRecibo,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
	if !s.ComisionMonto.IsZero() {
		out.ComisionMonto = s.ComisionMonto.StringFixed(2)
	}
	return out
}
