package repository

import "github.com/facturaec/admin-api/internal/domain/entity"

// EmisorRepository define el puerto de persistencia para Emisor.
type EmisorRepository interface {
	Create(e *entity.Emisor) error
	GetByID(id string) (*entity.Emisor, error)
	GetByRUC(ruc string) (*entity.Emisor, error)
	List(limit, offset int) ([]*entity.Emisor, error)
	ListIDs() ([]string, error)
}
