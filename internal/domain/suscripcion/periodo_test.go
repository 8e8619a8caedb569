package suscripcion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

func TestSumarPeriodo(t *testing.T) {
	inicio := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	casos := []struct {
		periodo  suscripcion.Periodo
		esperada time.Time
	}{
		// AddDate normaliza: 31 de enero + 1 mes cae en marzo.
		{suscripcion.PeriodoMensual, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{suscripcion.PeriodoTrimestral, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{suscripcion.PeriodoSemestral, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)},
		{suscripcion.PeriodoAnual, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{suscripcion.PeriodoBienal, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)},
		{suscripcion.PeriodoTrienal, time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range casos {
		assert.Equal(t, c.esperada, suscripcion.SumarPeriodo(inicio, c.periodo),
			"periodo %s", c.periodo)
	}
}

func TestSumarPeriodo_Desconocido(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, inicio.AddDate(0, 1, 0), suscripcion.SumarPeriodo(inicio, suscripcion.Periodo("RARO")),
		"un periodo no reconocido suma un mes")
}
