package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
)

// EmisorUseCase casos de uso de alta y consulta de emisores.
type EmisorUseCase struct {
	repo repository.EmisorRepository
}

// NewEmisorUseCase construye el caso de uso con el puerto de persistencia.
func NewEmisorUseCase(repo repository.EmisorRepository) *EmisorUseCase {
	return &EmisorUseCase{repo: repo}
}

// Create da de alta un emisor. Devuelve domain.ErrDuplicate si el RUC ya existe.
func (uc *EmisorUseCase) Create(in dto.CreateEmisorRequest) (*dto.EmisorResponse, error) {
	existing, _ := uc.repo.GetByRUC(in.RUC)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	emisor := &entity.Emisor{
		ID:          uuid.New().String(),
		RUC:         in.RUC,
		RazonSocial: in.RazonSocial,
		Email:       in.Email,
		Telefono:    in.Telefono,
		Direccion:   in.Direccion,
		Estado:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(emisor); err != nil {
		return nil, err
	}
	return toEmisorResponse(emisor), nil
}

// GetByID obtiene un emisor por ID.
func (uc *EmisorUseCase) GetByID(id string) (*dto.EmisorResponse, error) {
	emisor, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emisor == nil {
		return nil, nil
	}
	return toEmisorResponse(emisor), nil
}

// List lista emisores con paginación.
func (uc *EmisorUseCase) List(limit, offset int) (*dto.EmisorListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmisorResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEmisorResponse(e))
	}
	return &dto.EmisorListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toEmisorResponse(e *entity.Emisor) *dto.EmisorResponse {
	if e == nil {
		return nil
	}
	return &dto.EmisorResponse{
		ID:          e.ID,
		RUC:         e.RUC,
		RazonSocial: e.RazonSocial,
		Email:       e.Email,
		Telefono:    e.Telefono,
		Direccion:   e.Direccion,
		Estado:      e.Estado,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
