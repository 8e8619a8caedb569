package suscripcion

// Estado de una suscripción. Los valores coinciden con los almacenados en DB.
type Estado string

const (
	EstadoVigente           Estado = "VIGENTE"
	EstadoPendiente         Estado = "PENDIENTE"
	EstadoProgramado        Estado = "PROGRAMADO"
	EstadoSuspendido        Estado = "SUSPENDIDO"
	EstadoProximoACaducar   Estado = "PROXIMO_A_CADUCAR"
	EstadoPocosComprobantes Estado = "POCOS_COMPROBANTES"
	// EstadoProximoACaducarYPocosComprobantes aplica cuando ambos umbrales
	// (días restantes y comprobantes restantes) están en alerta a la vez.
	EstadoProximoACaducarYPocosComprobantes Estado = "PROXIMO_A_CADUCAR_Y_POCOS_COMPROBANTES"
	EstadoCaducado                          Estado = "CADUCADO"
	EstadoSinComprobantes                   Estado = "SIN_COMPROBANTES"
)

// Estados ordenados, para validación y para superficies externas.
var Estados = []Estado{
	EstadoVigente,
	EstadoPendiente,
	EstadoProgramado,
	EstadoSuspendido,
	EstadoProximoACaducar,
	EstadoPocosComprobantes,
	EstadoProximoACaducarYPocosComprobantes,
	EstadoCaducado,
	EstadoSinComprobantes,
}

// EsValido indica si el valor corresponde a uno de los nueve estados.
func (e Estado) EsValido() bool {
	for _, v := range Estados {
		if e == v {
			return true
		}
	}
	return false
}

// EsProtegido indica si el estado está excluido de la derivación automática.
// SUSPENDIDO y PENDIENTE solo se abandonan mediante una transición manual.
func (e Estado) EsProtegido() bool {
	return e == EstadoSuspendido || e == EstadoPendiente
}

// EsTerminal indica si el estado dispara la activación en cascada de la
// siguiente suscripción PROGRAMADO del emisor.
func (e Estado) EsTerminal() bool {
	return e == EstadoCaducado || e == EstadoSinComprobantes
}

// Estados de la transacción comercial de la suscripción (capa CRUD).
const (
	TransaccionPendiente  = "PENDIENTE"
	TransaccionConfirmada = "CONFIRMADA"
)
