package repository

import "github.com/facturaec/admin-api/internal/domain/entity"

// AuditoriaRepository define el puerto del historial de transiciones.
// La tabla es de solo inserción: no hay Update ni Delete.
type AuditoriaRepository interface {
	Create(a *entity.AuditoriaTransicion) error
	// ListBySuscripcion devuelve el historial, el más reciente primero.
	ListBySuscripcion(suscripcionID string) ([]*entity.AuditoriaTransicion, error)
}
