package repository

import "github.com/facturaec/admin-api/internal/domain/entity"

// PlanRepository define el puerto de persistencia para Plan.
type PlanRepository interface {
	Create(p *entity.Plan) error
	GetByID(id string) (*entity.Plan, error)
	List(limit, offset int) ([]*entity.Plan, error)
}
