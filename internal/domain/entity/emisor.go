package entity

import "time"

// Emisor es la empresa suscriptora (el tenant de facturación).
type Emisor struct {
	ID          string
	RUC         string
	RazonSocial string
	Email       string
	Telefono    string
	Direccion   string
	Estado      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
