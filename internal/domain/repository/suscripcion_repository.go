package repository

import "github.com/facturaec/admin-api/internal/domain/entity"

// SuscripcionRepository define el puerto de persistencia para Suscripcion.
type SuscripcionRepository interface {
	Create(s *entity.Suscripcion) error
	GetByID(id string) (*entity.Suscripcion, error)
	// GetByIDParaActualizar lee la fila con bloqueo exclusivo (FOR UPDATE).
	// Solo tiene sentido sobre un repositorio atado a una transacción: es la
	// unidad de mutación lógica por suscripción.
	GetByIDParaActualizar(id string) (*entity.Suscripcion, error)
	// ActualizarEstado escribe estado y updated_by; el resto de campos no se toca.
	ActualizarEstado(s *entity.Suscripcion) error
	// Update escribe los campos editables por la capa CRUD (fechas, cupo,
	// transacción, comisión).
	Update(s *entity.Suscripcion) error
	Delete(id string) error
	ListByEmisor(emisorID string) ([]*entity.Suscripcion, error)
	// ListEvaluables devuelve las suscripciones del emisor sujetas a derivación
	// automática (excluye SUSPENDIDO y PENDIENTE).
	ListEvaluables(emisorID string) ([]*entity.Suscripcion, error)
	// GetProgramadaMasAntigua devuelve la suscripción PROGRAMADO del emisor con
	// la fecha de inicio más antigua, con bloqueo exclusivo; nil si no hay.
	GetProgramadaMasAntigua(emisorID string) (*entity.Suscripcion, error)
}
