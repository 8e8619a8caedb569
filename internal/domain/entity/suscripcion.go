package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// Estados de la comisión del vendedor (auditoría a nivel de campo; no forman
// parte de la máquina de estados del ciclo de vida).
const (
	ComisionPendiente = "PENDIENTE"
	ComisionPagada    = "PAGADA"
)

// Suscripcion es la contratación de un plan por un emisor: fechas del
// periodo, contadores de cupo y estado del ciclo de vida. El estado solo se
// muta a través del servicio de ciclo de vida; escribirlo directo desde otra
// capa es una violación de corrección.
type Suscripcion struct {
	ID                    string
	EmisorID              string
	PlanID                string
	FechaInicio           time.Time
	FechaFin              time.Time // siempre posterior a FechaInicio
	ComprobantesAsignados int       // solo puede crecer una vez fijado
	ComprobantesUsados    int       // lo incrementa la capa de emisión
	Estado                suscripcion.Estado
	EstadoTransaccion     string // PENDIENTE | CONFIRMADA, propiedad de la capa CRUD
	ComisionEstado        string
	ComisionMonto         decimal.Decimal
	ComisionRecibo        string
	UpdatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ComprobantesRestantes devuelve el cupo disponible (puede ser ≤ 0).
func (s *Suscripcion) ComprobantesRestantes() int {
	return s.ComprobantesAsignados - s.ComprobantesUsados
}

// Insumos arma los insumos de la derivación de estado con la fecha inyectada
// y los umbrales del plan.
func (s *Suscripcion) Insumos(hoy time.Time, umbrales suscripcion.Umbrales) suscripcion.Insumos {
	return suscripcion.Insumos{
		EstadoActual:          s.Estado,
		Hoy:                   hoy,
		FechaInicio:           s.FechaInicio,
		FechaFin:              s.FechaFin,
		ComprobantesRestantes: s.ComprobantesRestantes(),
		Umbrales:              umbrales,
	}
}

// ContextoGuardia arma el contexto que evalúan las guardias de transición.
func (s *Suscripcion) ContextoGuardia(hoy time.Time, umbrales suscripcion.Umbrales) suscripcion.ContextoGuardia {
	return suscripcion.ContextoGuardia{
		Hoy:                   hoy,
		FechaInicio:           s.FechaInicio,
		FechaFin:              s.FechaFin,
		ComprobantesUsados:    s.ComprobantesUsados,
		ComprobantesRestantes: s.ComprobantesRestantes(),
		Umbrales:              umbrales,
	}
}

// EsEliminable indica si la capa CRUD puede borrarla físicamente: todavía no
// arrancó (PENDIENTE o PROGRAMADO), sin comprobantes emitidos y con la
// transacción sin confirmar.
func (s *Suscripcion) EsEliminable() bool {
	if s.Estado != suscripcion.EstadoPendiente && s.Estado != suscripcion.EstadoProgramado {
		return false
	}
	return s.ComprobantesUsados == 0 && s.EstadoTransaccion != suscripcion.TransaccionConfirmada
}
