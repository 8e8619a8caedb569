package entity

import (
	"time"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// AuditoriaTransicion es un registro inmutable del historial de transiciones:
// se crea exactamente uno por transición aceptada (manual o automática) y
// nunca se actualiza ni se borra. ActorID/ActorRol son nil únicamente en las
// transiciones automáticas; ClientIP/ClientAgent solo aplican a las manuales.
type AuditoriaTransicion struct {
	ID             string
	SuscripcionID  string
	EstadoAnterior suscripcion.Estado
	EstadoNuevo    suscripcion.Estado
	Tipo           suscripcion.TipoTransicion
	Motivo         string // siempre poblado, legible para humanos
	ActorID        *string
	ActorRol       *string
	ClientIP       *string
	ClientAgent    *string
	CreatedAt      time.Time
}
