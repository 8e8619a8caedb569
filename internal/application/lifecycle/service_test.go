package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
	"github.com/facturaec/admin-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servicio de ciclo de vida sobre repositorios en memoria. Los fakes imitan el
// contrato de la BD: las lecturas devuelven copias, y solo ActualizarEstado /
// Update / Create escriben — así los tests detectan mutaciones fuera de lugar.
// ──────────────────────────────────────────────────────────────────────────────

var hoy = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func dias(n int) time.Time { return hoy.AddDate(0, 0, n) }

type memoria struct {
	suscripciones map[string]*entity.Suscripcion
	planes        map[string]*entity.Plan
	auditorias    []*entity.AuditoriaTransicion
}

func nuevaMemoria() *memoria {
	return &memoria{
		suscripciones: map[string]*entity.Suscripcion{},
		planes:        map[string]*entity.Plan{},
	}
}

func clonar(s *entity.Suscripcion) *entity.Suscripcion {
	c := *s
	return &c
}

type fakeSusRepo struct{ m *memoria }

func (f *fakeSusRepo) Create(s *entity.Suscripcion) error {
	f.m.suscripciones[s.ID] = clonar(s)
	return nil
}

func (f *fakeSusRepo) GetByID(id string) (*entity.Suscripcion, error) {
	s, ok := f.m.suscripciones[id]
	if !ok {
		return nil, nil
	}
	return clonar(s), nil
}

func (f *fakeSusRepo) GetByIDParaActualizar(id string) (*entity.Suscripcion, error) {
	return f.GetByID(id)
}

func (f *fakeSusRepo) ActualizarEstado(s *entity.Suscripcion) error {
	alm, ok := f.m.suscripciones[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	alm.Estado = s.Estado
	alm.UpdatedBy = s.UpdatedBy
	return nil
}

func (f *fakeSusRepo) Update(s *entity.Suscripcion) error {
	alm, ok := f.m.suscripciones[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	alm.FechaInicio = s.FechaInicio
	alm.FechaFin = s.FechaFin
	alm.ComprobantesAsignados = s.ComprobantesAsignados
	alm.ComprobantesUsados = s.ComprobantesUsados
	alm.EstadoTransaccion = s.EstadoTransaccion
	return nil
}

func (f *fakeSusRepo) Delete(id string) error {
	delete(f.m.suscripciones, id)
	return nil
}

func (f *fakeSusRepo) ListByEmisor(emisorID string) ([]*entity.Suscripcion, error) {
	var out []*entity.Suscripcion
	for _, s := range f.m.suscripciones {
		if s.EmisorID == emisorID {
			out = append(out, clonar(s))
		}
	}
	return out, nil
}

func (f *fakeSusRepo) ListEvaluables(emisorID string) ([]*entity.Suscripcion, error) {
	var out []*entity.Suscripcion
	for _, s := range f.m.suscripciones {
		if s.EmisorID != emisorID || s.Estado.EsProtegido() {
			continue
		}
		out = append(out, clonar(s))
	}
	return out, nil
}

func (f *fakeSusRepo) GetProgramadaMasAntigua(emisorID string) (*entity.Suscripcion, error) {
	var antigua *entity.Suscripcion
	for _, s := range f.m.suscripciones {
		if s.EmisorID != emisorID || s.Estado != suscripcion.EstadoProgramado {
			continue
		}
		if antigua == nil || s.FechaInicio.Before(antigua.FechaInicio) {
			antigua = s
		}
	}
	if antigua == nil {
		return nil, nil
	}
	return clonar(antigua), nil
}

type fakeAudRepo struct{ m *memoria }

func (f *fakeAudRepo) Create(a *entity.AuditoriaTransicion) error {
	c := *a
	f.m.auditorias = append(f.m.auditorias, &c)
	return nil
}

func (f *fakeAudRepo) ListBySuscripcion(suscripcionID string) ([]*entity.AuditoriaTransicion, error) {
	var out []*entity.AuditoriaTransicion
	for i := len(f.m.auditorias) - 1; i >= 0; i-- { // más reciente primero
		if f.m.auditorias[i].SuscripcionID == suscripcionID {
			out = append(out, f.m.auditorias[i])
		}
	}
	return out, nil
}

type fakePlanRepo struct{ m *memoria }

func (f *fakePlanRepo) Create(p *entity.Plan) error {
	f.m.planes[p.ID] = p
	return nil
}

func (f *fakePlanRepo) GetByID(id string) (*entity.Plan, error) {
	return f.m.planes[id], nil
}

func (f *fakePlanRepo) List(limit, offset int) ([]*entity.Plan, error) {
	var out []*entity.Plan
	for _, p := range f.m.planes {
		out = append(out, p)
	}
	return out, nil
}

type fakeTxRunner struct{ m *memoria }

func (f *fakeTxRunner) Run(_ context.Context, fn func(r lifecycle.Repos) error) error {
	return fn(lifecycle.Repos{
		Suscripciones: &fakeSusRepo{m: f.m},
		Auditoria:     &fakeAudRepo{m: f.m},
		Planes:        &fakePlanRepo{m: f.m},
	})
}

// armarServicio construye el servicio y sus repos en memoria con un plan
// mensual de umbrales 5 días / 5 comprobantes ya sembrado.
func armarServicio(t *testing.T) (*lifecycle.Service, *memoria) {
	t.Helper()
	m := nuevaMemoria()
	m.planes["plan-1"] = &entity.Plan{
		ID:                    "plan-1",
		Nombre:                "Emprendedor",
		Periodo:               suscripcion.PeriodoMensual,
		ComprobantesIncluidos: 100,
		UmbralMinComprobantes: 5,
		UmbralMinDias:         5,
		Activo:                true,
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	svc := lifecycle.NewService(
		&fakeTxRunner{m: m},
		&fakeSusRepo{m: m},
		&fakeAudRepo{m: m},
		func() time.Time { return hoy },
		log,
	)
	return svc, m
}

// sembrar registra una suscripción sana del plan mensual y devuelve su ID.
func sembrar(m *memoria, id string, estado suscripcion.Estado, mod func(*entity.Suscripcion)) string {
	s := &entity.Suscripcion{
		ID:                    id,
		EmisorID:              "emisor-1",
		PlanID:                "plan-1",
		FechaInicio:           dias(-10),
		FechaFin:              dias(20),
		ComprobantesAsignados: 100,
		ComprobantesUsados:    20,
		Estado:                estado,
		EstadoTransaccion:     suscripcion.TransaccionConfirmada,
	}
	if mod != nil {
		mod(s)
	}
	m.suscripciones[id] = s
	return id
}

func TestEvaluarAutomatica_CambioPersisteYAudita(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.FechaFin = dias(3) // dentro del umbral de 5 días
	})

	res, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, res.Cambio)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, res.Estado)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, m.suscripciones[id].Estado,
		"el estado derivado debe quedar persistido")

	require.Len(t, m.auditorias, 1, "exactamente una fila de auditoría por transición")
	a := m.auditorias[0]
	assert.Equal(t, suscripcion.EstadoVigente, a.EstadoAnterior)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, a.EstadoNuevo)
	assert.Equal(t, suscripcion.TransicionAutomatica, a.Tipo)
	assert.NotEmpty(t, a.Motivo)
	assert.Nil(t, a.ActorID, "las transiciones automáticas no tienen actor")
	assert.Nil(t, a.ActorRol)
}

func TestEvaluarAutomatica_SinCambioNoEscribe(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, nil)

	res, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)

	assert.False(t, res.Cambio)
	assert.Equal(t, suscripcion.EstadoVigente, res.Estado)
	assert.Empty(t, m.auditorias, "sin cambio de estado no hay auditoría")
}

func TestEvaluarAutomatica_Idempotente(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.ComprobantesUsados = 100 // cupo agotado
	})

	primero, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, primero.Cambio)
	assert.Equal(t, suscripcion.EstadoSinComprobantes, primero.Estado)

	// La segunda evaluación no encuentra nada que cambiar.
	segundo, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, segundo.Cambio)
	assert.Len(t, m.auditorias, 1)
}

func TestEvaluarAutomatica_EstadoProtegidoNoCambia(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoSuspendido, func(s *entity.Suscripcion) {
		s.FechaFin = dias(-30) // caducaría si no estuviera protegida
	})

	res, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)

	assert.False(t, res.Cambio)
	assert.Equal(t, suscripcion.EstadoSuspendido, m.suscripciones[id].Estado)
	assert.Empty(t, m.auditorias)
}

func TestEvaluarAutomatica_NoExiste(t *testing.T) {
	svc, _ := armarServicio(t)

	_, err := svc.EvaluarAutomatica(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransicionManual_RechazoNoMuta(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, nil)

	res, err := svc.TransicionManual(context.Background(), lifecycle.SolicitudTransicion{
		SuscripcionID: id,
		Destino:       suscripcion.EstadoSuspendido,
		ActorID:       "user-1",
		ActorRol:      suscripcion.RolVendedor, // sin permiso para suspender
	})
	require.NoError(t, err, "un rechazo de negocio no es un error")

	assert.False(t, res.Aceptada)
	assert.Contains(t, res.Motivo, "VENDEDOR")
	assert.Equal(t, suscripcion.EstadoVigente, m.suscripciones[id].Estado,
		"un rechazo no debe mutar la suscripción")
	assert.Empty(t, m.auditorias, "un rechazo no deja auditoría")
}

func TestTransicionManual_AceptadaPersisteYAudita(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, nil)

	res, err := svc.TransicionManual(context.Background(), lifecycle.SolicitudTransicion{
		SuscripcionID: id,
		Destino:       suscripcion.EstadoSuspendido,
		ActorID:       "user-1",
		ActorRol:      suscripcion.RolAdmin,
		Motivo:        "falta de pago",
		ClientIP:      "10.0.0.7",
		ClientAgent:   "curl/8.5",
	})
	require.NoError(t, err)

	assert.True(t, res.Aceptada)
	assert.Equal(t, suscripcion.EstadoSuspendido, res.Estado)
	assert.Equal(t, suscripcion.EstadoSuspendido, m.suscripciones[id].Estado)
	assert.Equal(t, "user-1", m.suscripciones[id].UpdatedBy)

	require.Len(t, m.auditorias, 1)
	a := m.auditorias[0]
	assert.Equal(t, suscripcion.TransicionManual, a.Tipo)
	assert.Equal(t, "falta de pago", a.Motivo)
	require.NotNil(t, a.ActorID)
	assert.Equal(t, "user-1", *a.ActorID)
	require.NotNil(t, a.ActorRol)
	assert.Equal(t, string(suscripcion.RolAdmin), *a.ActorRol)
	require.NotNil(t, a.ClientIP)
	assert.Equal(t, "10.0.0.7", *a.ClientIP)
	require.NotNil(t, a.ClientAgent)
	assert.Equal(t, "curl/8.5", *a.ClientAgent)
}

func TestTransicionManual_DestinoDesconocido(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, nil)

	res, err := svc.TransicionManual(context.Background(), lifecycle.SolicitudTransicion{
		SuscripcionID: id,
		Destino:       suscripcion.Estado("CONGELADO"),
		ActorID:       "user-1",
		ActorRol:      suscripcion.RolSuperAdmin,
	})
	require.NoError(t, err)

	assert.False(t, res.Aceptada)
	assert.Contains(t, res.Motivo, "desconocido")
	assert.Empty(t, m.auditorias)
}

// Escenario: reactivar una suspendida cuyo periodo está por vencer. La
// transición manual acepta SUSPENDIDO → VIGENTE y la re-derivación inmediata
// la deja en PROXIMO_A_CADUCAR, con dos filas de auditoría.
func TestTransicionManual_ReactivacionRederiva(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoSuspendido, func(s *entity.Suscripcion) {
		s.FechaFin = dias(3)
	})

	res, err := svc.TransicionManual(context.Background(), lifecycle.SolicitudTransicion{
		SuscripcionID: id,
		Destino:       suscripcion.EstadoVigente,
		ActorID:       "user-1",
		ActorRol:      suscripcion.RolAdmin,
	})
	require.NoError(t, err)

	assert.True(t, res.Aceptada)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, res.Estado)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, m.suscripciones[id].Estado)

	require.Len(t, m.auditorias, 2, "reactivación manual + re-derivación automática")
	assert.Equal(t, suscripcion.TransicionManual, m.auditorias[0].Tipo)
	assert.Equal(t, suscripcion.EstadoVigente, m.auditorias[0].EstadoNuevo)
	assert.Equal(t, suscripcion.TransicionAutomatica, m.auditorias[1].Tipo)
	assert.Equal(t, suscripcion.EstadoProximoACaducar, m.auditorias[1].EstadoNuevo)
}

// Escenario: al caducar la suscripción activa, la PROGRAMADO más antigua del
// emisor se activa en la misma transacción; las demás quedan en espera.
func TestCascada_ActivaSoloLaMasAntigua(t *testing.T) {
	svc, m := armarServicio(t)
	activa := sembrar(m, "sus-activa", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.FechaFin = dias(-1)
	})
	primera := sembrar(m, "sus-prog-1", suscripcion.EstadoProgramado, func(s *entity.Suscripcion) {
		s.FechaInicio = dias(5)
		s.FechaFin = dias(35)
		s.ComprobantesUsados = 0
	})
	segunda := sembrar(m, "sus-prog-2", suscripcion.EstadoProgramado, func(s *entity.Suscripcion) {
		s.FechaInicio = dias(10)
		s.FechaFin = dias(40)
		s.ComprobantesUsados = 0
	})

	res, err := svc.EvaluarAutomatica(context.Background(), activa)
	require.NoError(t, err)
	require.True(t, res.Cambio)
	require.Equal(t, suscripcion.EstadoCaducado, res.Estado)

	// La más antigua se activó con el periodo recalculado desde hoy.
	act := m.suscripciones[primera]
	assert.Equal(t, suscripcion.EstadoVigente, act.Estado)
	assert.Equal(t, hoy, act.FechaInicio)
	assert.Equal(t, suscripcion.SumarPeriodo(hoy, suscripcion.PeriodoMensual), act.FechaFin)

	// La otra sigue en espera, intacta.
	assert.Equal(t, suscripcion.EstadoProgramado, m.suscripciones[segunda].Estado)
	assert.Equal(t, dias(10), m.suscripciones[segunda].FechaInicio)

	// Dos filas: la caducidad y la activación en cascada, ambas del sistema.
	require.Len(t, m.auditorias, 2)
	assert.Equal(t, activa, m.auditorias[0].SuscripcionID)
	assert.Equal(t, suscripcion.EstadoCaducado, m.auditorias[0].EstadoNuevo)
	assert.Equal(t, primera, m.auditorias[1].SuscripcionID)
	assert.Equal(t, suscripcion.EstadoVigente, m.auditorias[1].EstadoNuevo)
	assert.Nil(t, m.auditorias[1].ActorID)
	assert.Contains(t, m.auditorias[1].Motivo, "estado terminal")
}

func TestCascada_SinProgramadaNoHaceNada(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.ComprobantesUsados = 100
	})

	res, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, suscripcion.EstadoSinComprobantes, res.Estado)
	assert.Len(t, m.auditorias, 1, "solo la transición terminal; no hay nada que activar")
}

func TestBarridoEmisor(t *testing.T) {
	svc, m := armarServicio(t)
	sembrar(m, "sus-sana", suscripcion.EstadoVigente, nil)
	sembrar(m, "sus-caduca", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.FechaFin = dias(-2)
	})
	sembrar(m, "sus-suspendida", suscripcion.EstadoSuspendido, nil) // fuera del barrido
	sembrar(m, "sus-ajena", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.EmisorID = "emisor-2"
		s.FechaFin = dias(-2)
	})

	res, err := svc.BarridoEmisor(context.Background(), "emisor-1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Evaluadas, "solo las evaluables del emisor")
	assert.Equal(t, 1, res.Cambiadas)
	assert.Equal(t, 0, res.Fallidas)
	assert.Equal(t, suscripcion.EstadoCaducado, m.suscripciones["sus-caduca"].Estado)
	assert.Equal(t, suscripcion.EstadoVigente, m.suscripciones["sus-ajena"].Estado,
		"el barrido no toca suscripciones de otro emisor")
}

func TestHistorial(t *testing.T) {
	svc, m := armarServicio(t)
	id := sembrar(m, "sus-1", suscripcion.EstadoVigente, func(s *entity.Suscripcion) {
		s.FechaFin = dias(3)
	})

	_, err := svc.EvaluarAutomatica(context.Background(), id)
	require.NoError(t, err)
	_, err = svc.TransicionManual(context.Background(), lifecycle.SolicitudTransicion{
		SuscripcionID: id,
		Destino:       suscripcion.EstadoSuspendido,
		ActorID:       "user-1",
		ActorRol:      suscripcion.RolAdmin,
	})
	require.NoError(t, err)

	hist, err := svc.Historial(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, suscripcion.EstadoSuspendido, hist[0].EstadoNuevo, "lo más reciente primero")
	assert.Equal(t, suscripcion.EstadoProximoACaducar, hist[1].EstadoNuevo)
}

func TestHistorial_NoExiste(t *testing.T) {
	svc, _ := armarServicio(t)

	_, err := svc.Historial(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransicionesDisponibles(t *testing.T) {
	svc, _ := armarServicio(t)

	destinos := svc.TransicionesDisponibles(suscripcion.EstadoSuspendido, suscripcion.RolAdmin)
	assert.ElementsMatch(t, []suscripcion.Estado{suscripcion.EstadoVigente, suscripcion.EstadoProgramado}, destinos)

	assert.Empty(t, svc.TransicionesDisponibles(suscripcion.EstadoCaducado, suscripcion.RolSuperAdmin))
}
