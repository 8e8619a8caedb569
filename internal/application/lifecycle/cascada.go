package lifecycle

import (
	"fmt"
	"time"

	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// activarSiguienteProgramada es el gancho de los estados terminales: busca la
// suscripción PROGRAMADO más antigua (por fecha de inicio) del mismo emisor y
// la activa con fecha de inicio hoy y fecha de fin recalculada con el periodo
// de su plan. Corre dentro de la misma transacción que la transición terminal
// y bloquea la fila programada antes de mutarla. Si no hay suscripción en
// espera no pasa nada: no es un error. A lo sumo se activa una por transición.
func (s *Service) activarSiguienteProgramada(r Repos, terminada *entity.Suscripcion, hoy time.Time) error {
	prog, err := r.Suscripciones.GetProgramadaMasAntigua(terminada.EmisorID)
	if err != nil {
		return err
	}
	if prog == nil {
		return nil
	}

	plan, err := r.Planes.GetByID(prog.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan %s de la suscripción programada %s: %w", prog.PlanID, prog.ID, domain.ErrNotFound)
	}

	anterior := prog.Estado
	prog.FechaInicio = hoy
	prog.FechaFin = suscripcion.SumarPeriodo(hoy, plan.Periodo)
	if err := r.Suscripciones.Update(prog); err != nil {
		return err
	}

	// Activación interna del sistema: escribe VIGENTE sin pasar por guardias.
	prog.Estado = suscripcion.EstadoVigente
	if err := r.Suscripciones.ActualizarEstado(prog); err != nil {
		return err
	}

	motivo := fmt.Sprintf("la suscripción anterior alcanzó un estado terminal (%s); activada con nueva fecha de inicio %s",
		terminada.Estado, hoy.Format("2006-01-02"))
	if err := r.Auditoria.Create(s.nuevaAuditoria(prog.ID, anterior, suscripcion.EstadoVigente, suscripcion.TransicionAutomatica, motivo, suscripcion.ActorSistema(), "", "")); err != nil {
		return err
	}

	s.log.Info().
		Str("emisor_id", terminada.EmisorID).
		Str("suscripcion_terminada", terminada.ID).
		Str("suscripcion_activada", prog.ID).
		Msg("activación en cascada")
	return nil
}
