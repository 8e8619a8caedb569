package suscripcion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// ──────────────────────────────────────────────────────────────────────────────
// Registro de transiciones: arcos, tipos, roles y guardias. Las transiciones
// rechazadas devuelven *Rechazo con motivo; nunca un error de infraestructura.
// ──────────────────────────────────────────────────────────────────────────────

// contextoHolgado: guardias satisfechas salvo que el test indique lo contrario.
func contextoHolgado() suscripcion.ContextoGuardia {
	return suscripcion.ContextoGuardia{
		Hoy:                   hoy,
		FechaInicio:           dias(-30),
		FechaFin:              dias(60),
		ComprobantesUsados:    20,
		ComprobantesRestantes: 80,
		Umbrales:              suscripcion.Umbrales{MinDias: 5, MinComprobantes: 5},
	}
}

func TestValidarManual_CaducadoEsTerminal(t *testing.T) {
	// Ningún destino es alcanzable desde CADUCADO, ni siquiera para SUPERADMIN.
	for _, hacia := range suscripcion.Estados {
		err := suscripcion.ValidarManual(suscripcion.EstadoCaducado, hacia,
			suscripcion.RolSuperAdmin, contextoHolgado())

		var rechazo *suscripcion.Rechazo
		require.ErrorAs(t, err, &rechazo, "CADUCADO → %s debe rechazarse", hacia)
		assert.Contains(t, rechazo.Motivo, "no permitida")
	}

	assert.Empty(t, suscripcion.TransicionesManualesDesde(suscripcion.EstadoCaducado, suscripcion.RolSuperAdmin))
}

func TestValidarManual_ArcoInexistente(t *testing.T) {
	err := suscripcion.ValidarManual(suscripcion.EstadoVigente, suscripcion.EstadoPendiente,
		suscripcion.RolSuperAdmin, contextoHolgado())

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Equal(t, "transición no permitida de VIGENTE a PENDIENTE", rechazo.Motivo)
}

func TestValidarManual_ArcoSoloAutomatico(t *testing.T) {
	// VIGENTE → CADUCADO existe en el grafo pero lo recorre únicamente el
	// sistema: la solicitud manual se rechaza aunque el rol sea SUPERADMIN.
	err := suscripcion.ValidarManual(suscripcion.EstadoVigente, suscripcion.EstadoCaducado,
		suscripcion.RolSuperAdmin, contextoHolgado())

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Contains(t, rechazo.Motivo, "la ejecuta el sistema")
}

func TestValidarManual_RolInsuficiente(t *testing.T) {
	// Suspender exige rol administrador; EMISOR y VENDEDOR no pueden.
	for _, rol := range []suscripcion.Rol{suscripcion.RolEmisor, suscripcion.RolVendedor} {
		err := suscripcion.ValidarManual(suscripcion.EstadoVigente, suscripcion.EstadoSuspendido,
			rol, contextoHolgado())

		var rechazo *suscripcion.Rechazo
		require.ErrorAs(t, err, &rechazo, "el rol %s no debe poder suspender", rol)
		assert.Contains(t, rechazo.Motivo, string(rol))
	}
}

func TestValidarManual_Suspension(t *testing.T) {
	// Suspender no tiene guardia: basta arco y rol.
	err := suscripcion.ValidarManual(suscripcion.EstadoVigente, suscripcion.EstadoSuspendido,
		suscripcion.RolAdmin, contextoHolgado())
	assert.NoError(t, err)
}

func TestValidarManual_PendienteAVigente_Vendedor(t *testing.T) {
	// La activación desde PENDIENTE también está abierta al rol VENDEDOR.
	err := suscripcion.ValidarManual(suscripcion.EstadoPendiente, suscripcion.EstadoVigente,
		suscripcion.RolVendedor, contextoHolgado())
	assert.NoError(t, err)
}

func TestValidarManual_PendienteAVigente_FueraDeVentana(t *testing.T) {
	ctx := contextoHolgado()
	ctx.FechaFin = dias(-1) // el periodo ya venció

	err := suscripcion.ValidarManual(suscripcion.EstadoPendiente, suscripcion.EstadoVigente,
		suscripcion.RolAdmin, ctx)

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Contains(t, rechazo.Motivo, "ya pasó")
}

// Escenario: programar una suscripción con inicio dentro y fuera de la
// ventana de 30 días.
func TestGuardiaProgramacion_Ventana(t *testing.T) {
	casos := []struct {
		nombre      string
		inicio      time.Time
		usados      int
		aceptada    bool
		motivoParte string
	}{
		{"inicio mañana", dias(1), 0, true, ""},
		{"inicio en el límite de 30 días", dias(30), 0, true, ""},
		{"inicio en 31 días", dias(31), 0, false, "excede la ventana"},
		{"inicio hoy", hoy, 0, false, "posterior a hoy"},
		{"inicio en el pasado", dias(-2), 0, false, "posterior a hoy"},
		{"con comprobantes emitidos", dias(5), 3, false, "comprobantes emitidos"},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			ctx := contextoHolgado()
			ctx.FechaInicio = c.inicio
			ctx.ComprobantesUsados = c.usados

			err := suscripcion.ValidarManual(suscripcion.EstadoVigente, suscripcion.EstadoProgramado,
				suscripcion.RolAdmin, ctx)

			if c.aceptada {
				assert.NoError(t, err)
				return
			}
			var rechazo *suscripcion.Rechazo
			require.ErrorAs(t, err, &rechazo)
			assert.Contains(t, rechazo.Motivo, c.motivoParte)
		})
	}
}

// Escenario: reactivar una suscripción suspendida cuyo periodo venció durante
// la suspensión.
func TestGuardiaReactivacion_PeriodoVencido(t *testing.T) {
	ctx := contextoHolgado()
	ctx.FechaFin = dias(-10)

	err := suscripcion.ValidarManual(suscripcion.EstadoSuspendido, suscripcion.EstadoVigente,
		suscripcion.RolAdmin, ctx)

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Contains(t, rechazo.Motivo, "no se puede reactivar")
}

func TestGuardiaReactivacion_SinCupo(t *testing.T) {
	ctx := contextoHolgado()
	ctx.ComprobantesRestantes = 0

	err := suscripcion.ValidarManual(suscripcion.EstadoSuspendido, suscripcion.EstadoVigente,
		suscripcion.RolAdmin, ctx)

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Contains(t, rechazo.Motivo, "no quedan comprobantes")
}

func TestGuardiaComprobantesSuficientes(t *testing.T) {
	// SIN_COMPROBANTES → VIGENTE exige superar el umbral mínimo del plan.
	ctx := contextoHolgado()
	ctx.ComprobantesRestantes = 5 // igual al umbral: no basta

	err := suscripcion.ValidarManual(suscripcion.EstadoSinComprobantes, suscripcion.EstadoVigente,
		suscripcion.RolAdmin, ctx)

	var rechazo *suscripcion.Rechazo
	require.ErrorAs(t, err, &rechazo)
	assert.Contains(t, rechazo.Motivo, "no superan el mínimo")

	ctx.ComprobantesRestantes = 6 // uno por encima: acepta
	assert.NoError(t, suscripcion.ValidarManual(suscripcion.EstadoSinComprobantes, suscripcion.EstadoVigente,
		suscripcion.RolAdmin, ctx))
}

func TestGuardiaComprobantesSuficientes_NoAplicaAOtrosDestinos(t *testing.T) {
	// El mismo origen hacia PROXIMO_A_CADUCAR no exige cupo: la guardia solo
	// condiciona el destino VIGENTE.
	ctx := contextoHolgado()
	ctx.ComprobantesRestantes = 10

	assert.NoError(t, suscripcion.ValidarManual(suscripcion.EstadoPocosComprobantes,
		suscripcion.EstadoProximoACaducar, suscripcion.RolAdmin, ctx))
}

func TestPermiteAutomatica(t *testing.T) {
	assert.True(t, suscripcion.PermiteAutomatica(suscripcion.EstadoVigente, suscripcion.EstadoCaducado))
	assert.True(t, suscripcion.PermiteAutomatica(suscripcion.EstadoSinComprobantes, suscripcion.EstadoVigente),
		"un aumento de cupo re-deriva SIN_COMPROBANTES hacia VIGENTE")

	assert.False(t, suscripcion.PermiteAutomatica(suscripcion.EstadoVigente, suscripcion.EstadoSuspendido),
		"suspender es exclusivamente manual")
	assert.False(t, suscripcion.PermiteAutomatica(suscripcion.EstadoCaducado, suscripcion.EstadoVigente),
		"CADUCADO no tiene salidas")
	assert.False(t, suscripcion.PermiteAutomatica(suscripcion.EstadoSuspendido, suscripcion.EstadoVigente),
		"salir de SUSPENDIDO es exclusivamente manual")
}

func TestTransicionesManualesDesde(t *testing.T) {
	// Desde SUSPENDIDO un administrador puede reactivar o programar; un
	// vendedor no puede nada.
	destinos := suscripcion.TransicionesManualesDesde(suscripcion.EstadoSuspendido, suscripcion.RolAdmin)
	assert.ElementsMatch(t, []suscripcion.Estado{suscripcion.EstadoVigente, suscripcion.EstadoProgramado}, destinos)

	assert.Empty(t, suscripcion.TransicionesManualesDesde(suscripcion.EstadoSuspendido, suscripcion.RolVendedor))

	// Desde PENDIENTE el vendedor solo puede activar.
	destinos = suscripcion.TransicionesManualesDesde(suscripcion.EstadoPendiente, suscripcion.RolVendedor)
	assert.Equal(t, []suscripcion.Estado{suscripcion.EstadoVigente}, destinos)
}
