package entity

import (
	"time"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// Usuario del backend de administración. EmisorID es nil para los roles de
// plataforma (SUPERADMIN, ADMIN, VENDEDOR) y apunta al emisor para RolEmisor.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en plano después de persistir
	Nombre       string
	Rol          suscripcion.Rol
	EmisorID     *string
	Estado       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
