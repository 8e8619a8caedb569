package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
	"github.com/facturaec/admin-api/pkg/logger"
)

// Reloj entrega la hora actual. Se inyecta para que toda la lógica de fechas
// sea determinista en tests; el servicio nunca llama time.Now directamente.
type Reloj func() time.Time

// Gancho se ejecuta dentro de la misma transacción cuando una suscripción
// entra al estado que lo dispara (p. ej. activación en cascada al caducar).
type Gancho func(r Repos, terminada *entity.Suscripcion, hoy time.Time) error

// ResultadoEvaluacion es la salida de una evaluación automática.
type ResultadoEvaluacion struct {
	Estado suscripcion.Estado
	Cambio bool
}

// ResultadoTransicion es la salida de una solicitud de transición manual.
// Un rechazo de negocio llega aquí (Aceptada=false, Motivo poblado); solo los
// fallos de persistencia o NotFound se devuelven como error.
type ResultadoTransicion struct {
	Aceptada bool
	Motivo   string
	Estado   suscripcion.Estado
}

// ResultadoBarrido resume una pasada de evaluación sobre las suscripciones
// evaluables de un emisor.
type ResultadoBarrido struct {
	Evaluadas int
	Cambiadas int
	Fallidas  int
}

// SolicitudTransicion es una petición manual de cambio de estado.
type SolicitudTransicion struct {
	SuscripcionID string
	Destino       suscripcion.Estado
	ActorID       string
	ActorRol      suscripcion.Rol
	Motivo        string // opcional; si falta se genera uno
	ClientIP      string // opcional
	ClientAgent   string // opcional
}

// Service orquesta el ciclo de vida de las suscripciones: deriva y persiste
// transiciones automáticas, valida y ejecuta transiciones manuales, escribe
// la auditoría y dispara la activación en cascada.
type Service struct {
	tx            TxRunner
	suscripciones repository.SuscripcionRepository // lecturas fuera de tx
	auditoria     repository.AuditoriaRepository   // lecturas fuera de tx
	reloj         Reloj
	log           *logger.Logger
	ganchos       map[suscripcion.Estado][]Gancho
}

// NewService construye el servicio. Los ganchos post-transición quedan
// registrados por estado destino: ambos estados terminales activan la
// siguiente suscripción programada del emisor.
func NewService(tx TxRunner, susRepo repository.SuscripcionRepository, audRepo repository.AuditoriaRepository, reloj Reloj, log *logger.Logger) *Service {
	s := &Service{
		tx:            tx,
		suscripciones: susRepo,
		auditoria:     audRepo,
		reloj:         reloj,
		log:           log,
	}
	s.ganchos = map[suscripcion.Estado][]Gancho{
		suscripcion.EstadoCaducado:        {s.activarSiguienteProgramada},
		suscripcion.EstadoSinComprobantes: {s.activarSiguienteProgramada},
	}
	return s
}

// EvaluarAutomatica deriva el estado natural de la suscripción y, solo si
// difiere del almacenado, persiste la transición con su fila de auditoría en
// una única transacción. Los estados protegidos no cambian nunca por esta vía.
func (s *Service) EvaluarAutomatica(ctx context.Context, suscripcionID string) (*ResultadoEvaluacion, error) {
	hoy := s.reloj()
	var out ResultadoEvaluacion
	err := s.tx.Run(ctx, func(r Repos) error {
		sus, plan, err := cargarParaMutar(r, suscripcionID)
		if err != nil {
			return err
		}
		cambio, err := s.evaluarEnTx(r, sus, plan, hoy)
		if err != nil {
			return err
		}
		out = ResultadoEvaluacion{Estado: sus.Estado, Cambio: cambio}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TransicionManual valida la solicitud contra el registro de transiciones y
// las guardias; si se acepta, persiste estado + auditoría atómicamente. Un
// rechazo no escribe nada y se devuelve como resultado, no como error.
func (s *Service) TransicionManual(ctx context.Context, sol SolicitudTransicion) (*ResultadoTransicion, error) {
	if !sol.Destino.EsValido() {
		return &ResultadoTransicion{Motivo: fmt.Sprintf("estado destino desconocido: %s", sol.Destino)}, nil
	}
	hoy := s.reloj()
	var out ResultadoTransicion
	err := s.tx.Run(ctx, func(r Repos) error {
		sus, plan, err := cargarParaMutar(r, sol.SuscripcionID)
		if err != nil {
			return err
		}

		if err := suscripcion.ValidarManual(sus.Estado, sol.Destino, sol.ActorRol, sus.ContextoGuardia(hoy, plan.Umbrales())); err != nil {
			var rechazo *suscripcion.Rechazo
			if errors.As(err, &rechazo) {
				out = ResultadoTransicion{Motivo: rechazo.Motivo, Estado: sus.Estado}
				return nil // sin escrituras: la tx se confirma vacía
			}
			return err
		}

		anterior := sus.Estado
		sus.Estado = sol.Destino
		sus.UpdatedBy = sol.ActorID
		if err := r.Suscripciones.ActualizarEstado(sus); err != nil {
			return err
		}

		motivo := sol.Motivo
		if motivo == "" {
			motivo = fmt.Sprintf("transición manual de %s a %s", anterior, sol.Destino)
		}
		actor := suscripcion.ActorHumano(sol.ActorID, sol.ActorRol)
		if err := r.Auditoria.Create(s.nuevaAuditoria(sus.ID, anterior, sol.Destino, suscripcion.TransicionManual, motivo, actor, sol.ClientIP, sol.ClientAgent)); err != nil {
			return err
		}

		if err := s.ejecutarGanchos(r, sus, hoy); err != nil {
			return err
		}

		// La reactivación desde SUSPENDIDO puede aterrizar en un subestado
		// derivado más estricto (p. ej. PROXIMO_A_CADUCAR): re-derivar ya.
		if anterior == suscripcion.EstadoSuspendido && sol.Destino == suscripcion.EstadoVigente {
			if _, err := s.evaluarEnTx(r, sus, plan, hoy); err != nil {
				return err
			}
		}

		out = ResultadoTransicion{Aceptada: true, Estado: sus.Estado}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Aceptada {
		s.log.Info().
			Str("suscripcion_id", sol.SuscripcionID).
			Str("estado", string(out.Estado)).
			Str("actor_id", sol.ActorID).
			Msg("transición manual aceptada")
	} else {
		s.log.Debug().
			Str("suscripcion_id", sol.SuscripcionID).
			Str("motivo", out.Motivo).
			Msg("transición manual rechazada")
	}
	return &out, nil
}

// TransicionesDisponibles enumera los destinos manuales que el rol podría
// solicitar desde el estado actual. Informativo: la ejecución revalida todo.
func (s *Service) TransicionesDisponibles(estado suscripcion.Estado, rol suscripcion.Rol) []suscripcion.Estado {
	return suscripcion.TransicionesManualesDesde(estado, rol)
}

// Historial devuelve la auditoría de la suscripción, lo más reciente primero.
func (s *Service) Historial(ctx context.Context, suscripcionID string) ([]*entity.AuditoriaTransicion, error) {
	sus, err := s.suscripciones.GetByID(suscripcionID)
	if err != nil {
		return nil, err
	}
	if sus == nil {
		return nil, domain.ErrNotFound
	}
	return s.auditoria.ListBySuscripcion(suscripcionID)
}

// BarridoEmisor evalúa todas las suscripciones evaluables del emisor, cada
// una en su propia transacción (su propia unidad de mutación). Un fallo en
// una suscripción no detiene el barrido.
func (s *Service) BarridoEmisor(ctx context.Context, emisorID string) (*ResultadoBarrido, error) {
	lista, err := s.suscripciones.ListEvaluables(emisorID)
	if err != nil {
		return nil, err
	}
	out := &ResultadoBarrido{}
	for _, sus := range lista {
		out.Evaluadas++
		res, err := s.EvaluarAutomatica(ctx, sus.ID)
		if err != nil {
			out.Fallidas++
			s.log.Error().Err(err).
				Str("suscripcion_id", sus.ID).
				Msg("barrido: evaluación fallida")
			continue
		}
		if res.Cambio {
			out.Cambiadas++
		}
	}
	return out, nil
}

// evaluarEnTx es la evaluación automática dentro de una tx ya abierta: deriva,
// compara y solo escribe (estado + auditoría + ganchos) cuando hay cambio.
func (s *Service) evaluarEnTx(r Repos, sus *entity.Suscripcion, plan *entity.Plan, hoy time.Time) (bool, error) {
	in := sus.Insumos(hoy, plan.Umbrales())
	derivado := suscripcion.Derivar(in)
	if derivado == sus.Estado {
		return false, nil
	}
	if !suscripcion.PermiteAutomatica(sus.Estado, derivado) {
		// Arco no registrado como automático: conservador, no mutar.
		s.log.Warn().
			Str("suscripcion_id", sus.ID).
			Str("desde", string(sus.Estado)).
			Str("hacia", string(derivado)).
			Msg("derivación sin arco automático registrado")
		return false, nil
	}

	anterior := sus.Estado
	sus.Estado = derivado
	if err := r.Suscripciones.ActualizarEstado(sus); err != nil {
		return false, err
	}
	motivo := suscripcion.MotivoDerivacion(in, derivado)
	if err := r.Auditoria.Create(s.nuevaAuditoria(sus.ID, anterior, derivado, suscripcion.TransicionAutomatica, motivo, suscripcion.ActorSistema(), "", "")); err != nil {
		return false, err
	}
	if err := s.ejecutarGanchos(r, sus, hoy); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ejecutarGanchos(r Repos, sus *entity.Suscripcion, hoy time.Time) error {
	for _, g := range s.ganchos[sus.Estado] {
		if err := g(r, sus, hoy); err != nil {
			return err
		}
	}
	return nil
}

// nuevaAuditoria arma la fila de auditoría a partir del actor (sistema o
// humano); los campos de cliente solo se pueblan en transiciones manuales.
func (s *Service) nuevaAuditoria(susID string, anterior, nuevo suscripcion.Estado, tipo suscripcion.TipoTransicion, motivo string, actor suscripcion.Actor, ip, agente string) *entity.AuditoriaTransicion {
	a := &entity.AuditoriaTransicion{
		ID:             uuid.New().String(),
		SuscripcionID:  susID,
		EstadoAnterior: anterior,
		EstadoNuevo:    nuevo,
		Tipo:           tipo,
		Motivo:         motivo,
		CreatedAt:      s.reloj(),
	}
	if !actor.EsSistema() {
		id, rol := actor.ID, string(actor.Rol)
		a.ActorID = &id
		a.ActorRol = &rol
		if ip != "" {
			a.ClientIP = &ip
		}
		if agente != "" {
			a.ClientAgent = &agente
		}
	}
	return a
}

// cargarParaMutar bloquea la suscripción (FOR UPDATE) y carga su plan.
func cargarParaMutar(r Repos, suscripcionID string) (*entity.Suscripcion, *entity.Plan, error) {
	sus, err := r.Suscripciones.GetByIDParaActualizar(suscripcionID)
	if err != nil {
		return nil, nil, err
	}
	if sus == nil {
		return nil, nil, domain.ErrNotFound
	}
	plan, err := r.Planes.GetByID(sus.PlanID)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, fmt.Errorf("plan %s de la suscripción %s: %w", sus.PlanID, sus.ID, domain.ErrNotFound)
	}
	return sus, plan, nil
}
