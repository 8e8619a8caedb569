package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// Periodos admitidos en el catálogo de planes.
var periodosValidos = map[suscripcion.Periodo]bool{
	suscripcion.PeriodoMensual:    true,
	suscripcion.PeriodoTrimestral: true,
	suscripcion.PeriodoSemestral:  true,
	suscripcion.PeriodoAnual:      true,
	suscripcion.PeriodoBienal:     true,
	suscripcion.PeriodoTrienal:    true,
}

// PlanUseCase casos de uso del catálogo de planes.
type PlanUseCase struct {
	repo repository.PlanRepository
}

// NewPlanUseCase construye el caso de uso con el puerto de persistencia.
func NewPlanUseCase(repo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{repo: repo}
}

// Create crea un plan. Valida periodo, cupo y umbrales.
func (uc *PlanUseCase) Create(in dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	periodo := suscripcion.Periodo(in.Periodo)
	if !periodosValidos[periodo] {
		return nil, domain.ErrInvalidInput
	}
	if in.ComprobantesIncluidos <= 0 || in.UmbralMinComprobantes < 0 || in.UmbralMinDias < 0 {
		return nil, domain.ErrInvalidInput
	}
	precio, err := decimal.NewFromString(in.Precio)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	plan := &entity.Plan{
		ID:                    uuid.New().String(),
		Nombre:                in.Nombre,
		Periodo:               periodo,
		ComprobantesIncluidos: in.ComprobantesIncluidos,
		UmbralMinComprobantes: in.UmbralMinComprobantes,
		UmbralMinDias:         in.UmbralMinDias,
		Precio:                precio,
		Activo:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(plan); err != nil {
		return nil, err
	}
	return toPlanResponse(plan), nil
}

// GetByID obtiene un plan por ID.
func (uc *PlanUseCase) GetByID(id string) (*dto.PlanResponse, error) {
	plan, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	return toPlanResponse(plan), nil
}

// List lista planes con paginación.
func (uc *PlanUseCase) List(limit, offset int) (*dto.PlanListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PlanResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPlanResponse(p))
	}
	return &dto.PlanListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toPlanResponse(p *entity.Plan) *dto.PlanResponse {
	if p == nil {
		return nil
	}
	return &dto.PlanResponse{
		ID:                    p.ID,
		Nombre:                p.Nombre,
		Periodo:               string(p.Periodo),
		ComprobantesIncluidos: p.ComprobantesIncluidos,
		UmbralMinComprobantes: p.UmbralMinComprobantes,
		UmbralMinDias:         p.UmbralMinDias,
		Precio:                p.Precio.StringFixed(2),
		Activo:                p.Activo,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
