package lifecycle

import (
	"context"

	"github.com/facturaec/admin-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD. Todo lo
// que el servicio escribe dentro de una unidad de mutación (estado, auditoría,
// activación en cascada) pasa por este paquete de repos.
type Repos struct {
	Suscripciones repository.SuscripcionRepository
	Auditoria     repository.AuditoriaRepository
	Planes        repository.PlanRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado y su fila
// de auditoría se confirman como una sola unidad: o ambos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
