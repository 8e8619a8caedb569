package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// Plan es la plantilla de facturación que contrata un emisor. Desde el punto
// de vista de la suscripción es de solo lectura: sus umbrales y su cupo solo
// cambian para la suscripción mediante un cambio de plan explícito.
type Plan struct {
	ID                      string
	Nombre                  string
	Periodo                 suscripcion.Periodo
	ComprobantesIncluidos   int // > 0
	UmbralMinComprobantes   int // ≥ 0
	UmbralMinDias           int // ≥ 0
	Precio                  decimal.Decimal
	Activo                  bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Umbrales devuelve los umbrales de alerta del plan para la derivación.
func (p *Plan) Umbrales() suscripcion.Umbrales {
	return suscripcion.Umbrales{
		MinDias:         p.UmbralMinDias,
		MinComprobantes: p.UmbralMinComprobantes,
	}
}
