package suscripcion

import "fmt"

// Rechazo es el resultado negativo de validar una transición manual. Es un
// resultado esperado de negocio, no un fallo de infraestructura: nunca debe
// tratarse como error fatal ni producir mutaciones.
type Rechazo struct {
	Motivo string
}

func (r *Rechazo) Error() string { return r.Motivo }

// Regla describe un arco del grafo de transiciones. Un mismo arco puede ser
// automático (lo recorre la derivación), manual (lo solicita un usuario con
// rol permitido) o ambos: la reactivación tras un aumento de cupo, por
// ejemplo, existe como arco manual con guardia y como re-derivación.
type Regla struct {
	Automatica bool
	Roles      []Rol   // vacío: el arco no admite solicitud manual
	Guardia    Guardia // nil: sin precondición adicional
}

type arco struct {
	desde Estado
	hacia Estado
}

var rolesAdmin = []Rol{RolSuperAdmin, RolAdmin}
var rolesVenta = []Rol{RolSuperAdmin, RolAdmin, RolVendedor}

func auto() Regla { return Regla{Automatica: true} }

func manual(roles []Rol, g Guardia) Regla { return Regla{Roles: roles, Guardia: g} }

func ambas(roles []Rol, g Guardia) Regla {
	return Regla{Automatica: true, Roles: roles, Guardia: g}
}

// registro es la tabla estática de transiciones. CADUCADO es terminal: no
// tiene arcos de salida. SUSPENDIDO y PENDIENTE solo tienen salidas manuales.
var registro = map[arco]Regla{
	// Desde VIGENTE
	{EstadoVigente, EstadoProgramado}:                        ambas(rolesAdmin, guardiaProgramacion),
	{EstadoVigente, EstadoCaducado}:                          auto(),
	{EstadoVigente, EstadoSinComprobantes}:                   auto(),
	{EstadoVigente, EstadoProximoACaducar}:                   auto(),
	{EstadoVigente, EstadoPocosComprobantes}:                 auto(),
	{EstadoVigente, EstadoProximoACaducarYPocosComprobantes}: auto(),
	{EstadoVigente, EstadoSuspendido}:                        manual(rolesAdmin, nil),

	// Desde PROGRAMADO
	{EstadoProgramado, EstadoVigente}:                           auto(),
	{EstadoProgramado, EstadoCaducado}:                          auto(),
	{EstadoProgramado, EstadoSinComprobantes}:                   auto(),
	{EstadoProgramado, EstadoProximoACaducar}:                   auto(),
	{EstadoProgramado, EstadoPocosComprobantes}:                 auto(),
	{EstadoProgramado, EstadoProximoACaducarYPocosComprobantes}: auto(),

	// Desde PROXIMO_A_CADUCAR
	{EstadoProximoACaducar, EstadoVigente}:                           auto(),
	{EstadoProximoACaducar, EstadoProgramado}:                        auto(),
	{EstadoProximoACaducar, EstadoCaducado}:                          auto(),
	{EstadoProximoACaducar, EstadoSinComprobantes}:                   auto(),
	{EstadoProximoACaducar, EstadoPocosComprobantes}:                 auto(),
	{EstadoProximoACaducar, EstadoProximoACaducarYPocosComprobantes}: auto(),
	{EstadoProximoACaducar, EstadoSuspendido}:                        manual(rolesAdmin, nil),

	// Desde POCOS_COMPROBANTES
	{EstadoPocosComprobantes, EstadoVigente}:                           ambas(rolesAdmin, guardiaComprobantesSuficientes),
	{EstadoPocosComprobantes, EstadoProgramado}:                        auto(),
	{EstadoPocosComprobantes, EstadoCaducado}:                          auto(),
	{EstadoPocosComprobantes, EstadoSinComprobantes}:                   auto(),
	{EstadoPocosComprobantes, EstadoProximoACaducar}:                   ambas(rolesAdmin, nil),
	{EstadoPocosComprobantes, EstadoProximoACaducarYPocosComprobantes}: auto(),
	{EstadoPocosComprobantes, EstadoSuspendido}:                        manual(rolesAdmin, nil),

	// Desde PROXIMO_A_CADUCAR_Y_POCOS_COMPROBANTES
	{EstadoProximoACaducarYPocosComprobantes, EstadoVigente}:           ambas(rolesAdmin, guardiaComprobantesSuficientes),
	{EstadoProximoACaducarYPocosComprobantes, EstadoProgramado}:        auto(),
	{EstadoProximoACaducarYPocosComprobantes, EstadoCaducado}:          auto(),
	{EstadoProximoACaducarYPocosComprobantes, EstadoSinComprobantes}:   auto(),
	{EstadoProximoACaducarYPocosComprobantes, EstadoProximoACaducar}:   ambas(rolesAdmin, nil),
	{EstadoProximoACaducarYPocosComprobantes, EstadoPocosComprobantes}: auto(),
	{EstadoProximoACaducarYPocosComprobantes, EstadoSuspendido}:        manual(rolesAdmin, nil),

	// Desde SIN_COMPROBANTES (terminal para la derivación salvo aumento de cupo)
	{EstadoSinComprobantes, EstadoVigente}:                           ambas(rolesAdmin, guardiaComprobantesSuficientes),
	{EstadoSinComprobantes, EstadoProgramado}:                        auto(),
	{EstadoSinComprobantes, EstadoCaducado}:                          auto(),
	{EstadoSinComprobantes, EstadoProximoACaducar}:                   ambas(rolesAdmin, nil),
	{EstadoSinComprobantes, EstadoPocosComprobantes}:                 auto(),
	{EstadoSinComprobantes, EstadoProximoACaducarYPocosComprobantes}: auto(),

	// Desde PENDIENTE (protegido: solo salidas manuales)
	{EstadoPendiente, EstadoVigente}:    manual(rolesVenta, guardiaVentanaVigencia),
	{EstadoPendiente, EstadoProgramado}: manual(rolesAdmin, guardiaProgramacion),

	// Desde SUSPENDIDO (protegido: solo salidas manuales)
	{EstadoSuspendido, EstadoVigente}:    manual(rolesAdmin, guardiaReactivacion),
	{EstadoSuspendido, EstadoProgramado}: manual(rolesAdmin, guardiaProgramacion),
}

// BuscarRegla devuelve la regla del arco (desde → hacia), si existe.
func BuscarRegla(desde, hacia Estado) (Regla, bool) {
	r, ok := registro[arco{desde, hacia}]
	return r, ok
}

// PermiteAutomatica indica si la derivación puede recorrer el arco.
func PermiteAutomatica(desde, hacia Estado) bool {
	r, ok := BuscarRegla(desde, hacia)
	return ok && r.Automatica
}

// ValidarManual aplica el algoritmo de validación de una transición manual:
// existencia del arco, tipo, rol y guardia, en ese orden. Devuelve *Rechazo
// con el motivo de la primera verificación que falla; nil si se acepta.
func ValidarManual(desde, hacia Estado, rol Rol, ctx ContextoGuardia) error {
	regla, ok := BuscarRegla(desde, hacia)
	if !ok {
		return &Rechazo{Motivo: fmt.Sprintf("transición no permitida de %s a %s", desde, hacia)}
	}
	if len(regla.Roles) == 0 {
		return &Rechazo{Motivo: "esta transición la ejecuta el sistema y no puede realizarse manualmente"}
	}
	if !rolPermitido(rol, regla.Roles) {
		return &Rechazo{Motivo: fmt.Sprintf("el rol %s no tiene permiso para esta transición", rol)}
	}
	if regla.Guardia != nil {
		if err := regla.Guardia(hacia, ctx); err != nil {
			return err
		}
	}
	return nil
}

// TransicionesManualesDesde enumera los estados destino que el rol podría
// solicitar desde el estado actual. No evalúa guardias: la ejecución real
// siempre revalida con ValidarManual.
func TransicionesManualesDesde(desde Estado, rol Rol) []Estado {
	var destinos []Estado
	for _, hacia := range Estados {
		regla, ok := BuscarRegla(desde, hacia)
		if !ok || len(regla.Roles) == 0 {
			continue
		}
		if rolPermitido(rol, regla.Roles) {
			destinos = append(destinos, hacia)
		}
	}
	return destinos
}

func rolPermitido(rol Rol, permitidos []Rol) bool {
	for _, p := range permitidos {
		if rol == p {
			return true
		}
	}
	return false
}
