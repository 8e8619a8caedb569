package suscripcion

// Rol de un usuario del sistema. La jerarquía (de mayor a menor alcance) es
// SUPERADMIN > ADMIN > VENDEDOR > EMISOR.
type Rol string

const (
	RolSuperAdmin Rol = "SUPERADMIN"
	RolAdmin      Rol = "ADMIN"
	RolVendedor   Rol = "VENDEDOR"
	RolEmisor     Rol = "EMISOR"
)

// Tipo de transición registrada en la auditoría.
type TipoTransicion string

const (
	TransicionAutomatica TipoTransicion = "AUTOMATICA"
	TransicionManual     TipoTransicion = "MANUAL"
)

// Actor identifica quién ejecuta una transición: el sistema (derivación
// automática, cascada) o un humano con id y rol. Evita campos nulables en
// cada punto que escribe auditoría.
type Actor struct {
	sistema bool
	ID      string
	Rol     Rol
}

// ActorSistema devuelve el actor de las transiciones automáticas.
func ActorSistema() Actor {
	return Actor{sistema: true}
}

// ActorHumano devuelve el actor de una transición manual.
func ActorHumano(id string, rol Rol) Actor {
	return Actor{ID: id, Rol: rol}
}

// EsSistema indica si el actor es el propio sistema (sin identidad humana).
func (a Actor) EsSistema() bool {
	return a.sistema
}
