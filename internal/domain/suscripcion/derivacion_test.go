package suscripcion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// ──────────────────────────────────────────────────────────────────────────────
// Derivación de estado: cadena de prioridad estricta con fecha inyectada.
// Estos tests fijan "hoy" explícitamente; nunca dependen del reloj del sistema.
// ──────────────────────────────────────────────────────────────────────────────

var hoy = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func dias(n int) time.Time { return hoy.AddDate(0, 0, n) }

// insumosBase: suscripción a mitad de periodo, cupo holgado, sin alertas.
func insumosBase() suscripcion.Insumos {
	return suscripcion.Insumos{
		EstadoActual:          suscripcion.EstadoVigente,
		Hoy:                   hoy,
		FechaInicio:           dias(-30),
		FechaFin:              dias(60),
		ComprobantesRestantes: 80,
		Umbrales:              suscripcion.Umbrales{MinDias: 5, MinComprobantes: 5},
	}
}

func TestDerivar_Vigente(t *testing.T) {
	assert.Equal(t, suscripcion.EstadoVigente, suscripcion.Derivar(insumosBase()))
}

func TestDerivar_FechaFuturaDominaSobreCupo(t *testing.T) {
	// Escenario: inicio en 10 días con umbral de días 5. La fecha de inicio
	// gana sobre cualquier chequeo de cupo o caducidad.
	in := insumosBase()
	in.FechaInicio = dias(10)
	in.FechaFin = dias(12)
	in.ComprobantesRestantes = 0 // ni siquiera el cupo agotado cambia el resultado

	assert.Equal(t, suscripcion.EstadoProgramado, suscripcion.Derivar(in))
}

func TestDerivar_Caducado(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(-1) // venció ayer

	assert.Equal(t, suscripcion.EstadoCaducado, suscripcion.Derivar(in))
}

func TestDerivar_FechaFinHoyNoEsCaducado(t *testing.T) {
	// El último día del periodo la suscripción sigue operando (días restantes 0
	// dispara PROXIMO_A_CADUCAR, no CADUCADO).
	in := insumosBase()
	in.FechaFin = hoy

	assert.Equal(t, suscripcion.EstadoProximoACaducar, suscripcion.Derivar(in))
}

func TestDerivar_CaducadoGanaASinComprobantes(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(-3)
	in.ComprobantesRestantes = 0

	assert.Equal(t, suscripcion.EstadoCaducado, suscripcion.Derivar(in),
		"la caducidad tiene prioridad sobre el cupo agotado")
}

func TestDerivar_SinComprobantes(t *testing.T) {
	in := insumosBase()
	in.ComprobantesRestantes = 0
	assert.Equal(t, suscripcion.EstadoSinComprobantes, suscripcion.Derivar(in))

	in.ComprobantesRestantes = -2 // el contador puede pasarse del techo
	assert.Equal(t, suscripcion.EstadoSinComprobantes, suscripcion.Derivar(in))
}

func TestDerivar_PocosComprobantes(t *testing.T) {
	// Escenario: 100 asignados, 97 usados, umbral 5 → 3 restantes ≤ 5.
	in := insumosBase()
	in.ComprobantesRestantes = 3

	assert.Equal(t, suscripcion.EstadoPocosComprobantes, suscripcion.Derivar(in))
}

func TestDerivar_ProximoACaducar(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(5) // exactamente en el umbral

	assert.Equal(t, suscripcion.EstadoProximoACaducar, suscripcion.Derivar(in))
}

func TestDerivar_UnDiaSobreElUmbralSigueVigente(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(6) // umbral 5: un día por encima no alerta

	assert.Equal(t, suscripcion.EstadoVigente, suscripcion.Derivar(in))
}

func TestDerivar_AmbasAlertas(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(4)
	in.ComprobantesRestantes = 2

	assert.Equal(t, suscripcion.EstadoProximoACaducarYPocosComprobantes, suscripcion.Derivar(in))
}

func TestDerivar_EstadosProtegidosNoSeDerivan(t *testing.T) {
	// SUSPENDIDO y PENDIENTE solo salen por transición manual, sin importar
	// fechas ni contadores.
	for _, protegido := range []suscripcion.Estado{suscripcion.EstadoSuspendido, suscripcion.EstadoPendiente} {
		in := insumosBase()
		in.EstadoActual = protegido
		// Caducada y sin cupo: aun así el estado protegido se conserva.
		in.FechaFin = dias(-10)
		in.ComprobantesRestantes = 0

		assert.Equal(t, protegido, suscripcion.Derivar(in),
			"el estado %s no debe derivarse nunca", protegido)
	}
}

func TestDerivar_Determinista(t *testing.T) {
	// Mismos insumos, mismo resultado, sin importar cuántas veces se llame.
	in := insumosBase()
	in.FechaFin = dias(3)
	in.ComprobantesRestantes = 4

	primero := suscripcion.Derivar(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, primero, suscripcion.Derivar(in))
	}
}

func TestDiasRestantes_NuncaNegativo(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(-7)
	assert.Equal(t, 0, in.DiasRestantes())
}

func TestMotivoDerivacion_SiemprePoblado(t *testing.T) {
	in := insumosBase()
	for _, e := range suscripcion.Estados {
		assert.NotEmpty(t, suscripcion.MotivoDerivacion(in, e),
			"el motivo hacia %s debe estar poblado", e)
	}
}

func TestMotivoDerivacion_IncluyeValores(t *testing.T) {
	in := insumosBase()
	in.FechaFin = dias(3)
	motivo := suscripcion.MotivoDerivacion(in, suscripcion.EstadoProximoACaducar)

	assert.Contains(t, motivo, "3", "debe nombrar los días restantes")
	assert.Contains(t, motivo, "5", "debe nombrar el mínimo del plan")
}
