package suscripcion

import (
	"fmt"
	"time"
)

// VentanaProgramacion es el máximo de días hacia adelante que puede quedar la
// fecha de inicio de una suscripción al pasarla a PROGRAMADO manualmente.
const VentanaProgramacion = 30

// ContextoGuardia agrupa los datos que una guardia puede necesitar. La fecha
// de hoy viene inyectada, igual que en la derivación.
type ContextoGuardia struct {
	Hoy                   time.Time
	FechaInicio           time.Time
	FechaFin              time.Time
	ComprobantesUsados    int
	ComprobantesRestantes int
	Umbrales              Umbrales
}

// Guardia es una precondición adicional de un arco manual. Recibe el estado
// destino porque algunas guardias solo aplican a ciertos destinos. Devuelve
// *Rechazo con un motivo específico cuando la precondición no se cumple.
type Guardia func(hacia Estado, ctx ContextoGuardia) error

// guardiaProgramacion: pasar a PROGRAMADO exige fecha de inicio estrictamente
// futura, dentro de la ventana de 30 días, y cero comprobantes emitidos.
func guardiaProgramacion(_ Estado, ctx ContextoGuardia) error {
	hoy := soloFecha(ctx.Hoy)
	inicio := soloFecha(ctx.FechaInicio)
	if !inicio.After(hoy) {
		return &Rechazo{Motivo: fmt.Sprintf("la fecha de inicio (%s) debe ser posterior a hoy para programar",
			ctx.FechaInicio.Format("2006-01-02"))}
	}
	limite := hoy.AddDate(0, 0, VentanaProgramacion)
	if inicio.After(limite) {
		return &Rechazo{Motivo: fmt.Sprintf("la fecha de inicio (%s) excede la ventana de %d días para programar",
			ctx.FechaInicio.Format("2006-01-02"), VentanaProgramacion)}
	}
	if ctx.ComprobantesUsados != 0 {
		return &Rechazo{Motivo: fmt.Sprintf("no se puede programar una suscripción con comprobantes emitidos (%d)",
			ctx.ComprobantesUsados)}
	}
	return nil
}

// guardiaVentanaVigencia: activar desde PENDIENTE exige que hoy esté dentro
// del periodo [fecha de inicio, fecha de fin].
func guardiaVentanaVigencia(_ Estado, ctx ContextoGuardia) error {
	hoy := soloFecha(ctx.Hoy)
	if soloFecha(ctx.FechaInicio).After(hoy) {
		return &Rechazo{Motivo: fmt.Sprintf("la fecha de inicio (%s) aún no llega; no se puede activar",
			ctx.FechaInicio.Format("2006-01-02"))}
	}
	if hoy.After(soloFecha(ctx.FechaFin)) {
		return &Rechazo{Motivo: fmt.Sprintf("la fecha de fin (%s) ya pasó; no se puede activar",
			ctx.FechaFin.Format("2006-01-02"))}
	}
	return nil
}

// guardiaReactivacion: salir de SUSPENDIDO hacia VIGENTE exige periodo no
// vencido y comprobantes disponibles.
func guardiaReactivacion(_ Estado, ctx ContextoGuardia) error {
	if soloFecha(ctx.Hoy).After(soloFecha(ctx.FechaFin)) {
		return &Rechazo{Motivo: fmt.Sprintf("la fecha de fin (%s) ya pasó; no se puede reactivar",
			ctx.FechaFin.Format("2006-01-02"))}
	}
	if ctx.ComprobantesRestantes <= 0 {
		return &Rechazo{Motivo: "no quedan comprobantes disponibles; no se puede reactivar"}
	}
	return nil
}

// guardiaComprobantesSuficientes: volver a VIGENTE desde los estados de
// alerta de cupo exige superar el umbral mínimo del plan. Para otros
// destinos (PROXIMO_A_CADUCAR) no aplica.
func guardiaComprobantesSuficientes(hacia Estado, ctx ContextoGuardia) error {
	if hacia != EstadoVigente {
		return nil
	}
	if ctx.ComprobantesRestantes <= ctx.Umbrales.MinComprobantes {
		return &Rechazo{Motivo: fmt.Sprintf("comprobantes restantes (%d) no superan el mínimo del plan (%d)",
			ctx.ComprobantesRestantes, ctx.Umbrales.MinComprobantes)}
	}
	return nil
}
