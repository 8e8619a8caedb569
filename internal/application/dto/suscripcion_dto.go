package dto

import "time"

// CreateSuscripcionRequest entrada para contratar un plan.
type CreateSuscripcionRequest struct {
	EmisorID    string `json:"emisor_id" validate:"required"`
	PlanID      string `json:"plan_id" validate:"required"`
	FechaInicio string `json:"fecha_inicio" validate:"required"` // YYYY-MM-DD
}

// AumentarComprobantesRequest aumenta el cupo asignado (solo crece).
type AumentarComprobantesRequest struct {
	Incremento int `json:"incremento" validate:"required,gt=0"`
}

// CambiarPlanRequest cambia el plan de la suscripción.
type CambiarPlanRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// ComisionRequest registra los campos de comisión del vendedor.
type ComisionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=PENDIENTE PAGADA"`
	Monto  string `json:"monto" validate:"required"`
	Recibo string `json:"recibo"`
}

// TransicionRequest solicitud manual de cambio de estado.
type TransicionRequest struct {
	Destino string `json:"destino" validate:"required"`
	Motivo  string `json:"motivo"`
}

// TransicionResponse resultado de una solicitud de transición.
type TransicionResponse struct {
	Aceptada bool   `json:"aceptada"`
	Motivo   string `json:"motivo,omitempty"`
	Estado   string `json:"estado"`
}

// TransicionesDisponiblesResponse destinos manuales posibles para el rol.
type TransicionesDisponiblesResponse struct {
	Estado   string   `json:"estado"`
	Destinos []string `json:"destinos"`
}

// EvaluacionResponse resultado de una evaluación automática puntual.
type EvaluacionResponse struct {
	Estado string `json:"estado"`
	Cambio bool   `json:"cambio"`
}

// BarridoResponse resumen del barrido de un emisor.
type BarridoResponse struct {
	Evaluadas int `json:"evaluadas"`
	Cambiadas int `json:"cambiadas"`
	Fallidas  int `json:"fallidas"`
}

// SuscripcionResponse salida de una suscripción.
type SuscripcionResponse struct {
	ID                    string    `json:"id"`
	EmisorID              string    `json:"emisor_id"`
	PlanID                string    `json:"plan_id"`
	FechaInicio           time.Time `json:"fecha_inicio"`
	FechaFin              time.Time `json:"fecha_fin"`
	ComprobantesAsignados int       `json:"comprobantes_asignados"`
	ComprobantesUsados    int       `json:"comprobantes_usados"`
	ComprobantesRestantes int       `json:"comprobantes_restantes"`
	Estado                string    `json:"estado"`
	EstadoTransaccion     string    `json:"estado_transaccion"`
	ComisionEstado        string    `json:"comision_estado,omitempty"`
	ComisionMonto         string    `json:"comision_monto,omitempty"`
	ComisionRecibo        string    `json:"comision_recibo,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AuditoriaResponse una fila del historial de transiciones.
type AuditoriaResponse struct {
	ID             string    `json:"id"`
	SuscripcionID  string    `json:"suscripcion_id"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Tipo           string    `json:"tipo"`
	Motivo         string    `json:"motivo"`
	ActorID        *string   `json:"actor_id,omitempty"`
	ActorRol       *string   `json:"actor_rol,omitempty"`
	ClientIP       *string   `json:"client_ip,omitempty"`
	ClientAgent    *string   `json:"client_agent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistorialResponse historial completo, el más reciente primero.
type HistorialResponse struct {
	Items []AuditoriaResponse `json:"items"`
}
