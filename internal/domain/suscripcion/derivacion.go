package suscripcion

import (
	"fmt"
	"time"
)

// Umbrales de alerta definidos por el plan.
type Umbrales struct {
	MinDias         int // días restantes mínimos antes de PROXIMO_A_CADUCAR
	MinComprobantes int // comprobantes restantes mínimos antes de POCOS_COMPROBANTES
}

// Insumos de la derivación de estado. Todo es explícito (incluida la fecha de
// hoy): la función no lee reloj ni estado oculto, y por eso es determinista.
type Insumos struct {
	EstadoActual          Estado
	Hoy                   time.Time
	FechaInicio           time.Time
	FechaFin              time.Time
	ComprobantesRestantes int
	Umbrales              Umbrales
}

// DiasRestantes devuelve los días calendario de hoy a la fecha de fin (mínimo 0).
func (in Insumos) DiasRestantes() int {
	d := int(soloFecha(in.FechaFin).Sub(soloFecha(in.Hoy)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Derivar calcula el estado natural de la suscripción. Cadena de prioridad
// estricta, primera condición que aplica gana:
//
//  1. SUSPENDIDO y PENDIENTE no se derivan (solo salen por transición manual).
//  2. Fecha de inicio futura        → PROGRAMADO.
//  3. Fecha de fin superada         → CADUCADO.
//  4. Sin comprobantes restantes    → SIN_COMPROBANTES.
//  5. Umbrales del plan             → PROXIMO_A_CADUCAR, POCOS_COMPROBANTES,
//     ambos, o VIGENTE si ninguno aplica.
func Derivar(in Insumos) Estado {
	if in.EstadoActual.EsProtegido() {
		return in.EstadoActual
	}

	hoy := soloFecha(in.Hoy)
	if soloFecha(in.FechaInicio).After(hoy) {
		return EstadoProgramado
	}
	if hoy.After(soloFecha(in.FechaFin)) {
		return EstadoCaducado
	}
	if in.ComprobantesRestantes <= 0 {
		return EstadoSinComprobantes
	}

	porCaducar := in.DiasRestantes() <= in.Umbrales.MinDias
	pocosComprobantes := in.ComprobantesRestantes <= in.Umbrales.MinComprobantes
	switch {
	case porCaducar && pocosComprobantes:
		return EstadoProximoACaducarYPocosComprobantes
	case porCaducar:
		return EstadoProximoACaducar
	case pocosComprobantes:
		return EstadoPocosComprobantes
	default:
		return EstadoVigente
	}
}

// MotivoDerivacion arma el motivo legible que acompaña una transición
// automática hacia el estado derivado.
func MotivoDerivacion(in Insumos, derivado Estado) string {
	switch derivado {
	case EstadoProgramado:
		return fmt.Sprintf("la fecha de inicio (%s) es posterior a hoy (%s)",
			in.FechaInicio.Format("2006-01-02"), in.Hoy.Format("2006-01-02"))
	case EstadoCaducado:
		return fmt.Sprintf("la fecha de fin (%s) es anterior a hoy (%s)",
			in.FechaFin.Format("2006-01-02"), in.Hoy.Format("2006-01-02"))
	case EstadoSinComprobantes:
		return "los comprobantes asignados se agotaron"
	case EstadoProximoACaducar:
		return fmt.Sprintf("días restantes (%d) ≤ mínimo del plan (%d)",
			in.DiasRestantes(), in.Umbrales.MinDias)
	case EstadoPocosComprobantes:
		return fmt.Sprintf("comprobantes restantes (%d) ≤ mínimo del plan (%d)",
			in.ComprobantesRestantes, in.Umbrales.MinComprobantes)
	case EstadoProximoACaducarYPocosComprobantes:
		return fmt.Sprintf("días restantes (%d) ≤ mínimo del plan (%d) y comprobantes restantes (%d) ≤ mínimo del plan (%d)",
			in.DiasRestantes(), in.Umbrales.MinDias,
			in.ComprobantesRestantes, in.Umbrales.MinComprobantes)
	case EstadoVigente:
		return "condiciones de vigencia restablecidas"
	default:
		return "estado derivado por el sistema"
	}
}

// soloFecha trunca a medianoche UTC para comparar por día calendario.
func soloFecha(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
